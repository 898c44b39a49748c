package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	OwnerID          snowflake.ID      `gorm:"not null;index" json:"owner_id"`
	Name             string            `gorm:"not null" json:"name"`
	Phone            string            `gorm:"column:phone" json:"phone,omitempty"`
	RegistrationDate time.Time         `gorm:"not null" json:"registration_date"`
	Description      string            `gorm:"column:description" json:"description,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
