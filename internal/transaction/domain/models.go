package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Transaction is one recorded purchase. Rows are append-only; the service
// never mutates or deletes them.
type Transaction struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID       snowflake.ID `gorm:"not null;index;uniqueIndex:idx_owner_invoice" json:"owner_id"`
	CustomerID    snowflake.ID `gorm:"not null;index" json:"customer_id"`
	InvoiceNumber string       `gorm:"not null;uniqueIndex:idx_owner_invoice" json:"invoice_number"`
	InvoiceDate   time.Time    `gorm:"not null;index" json:"invoice_date"`
	Amount        int64        `gorm:"not null" json:"amount"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
