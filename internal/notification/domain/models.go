package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// AlertType distinguishes the notification streams that cool down
// independently for the same customer.
type AlertType string

const (
	AlertTypeVIP    AlertType = "VIP"
	AlertTypeAtRisk AlertType = "AT_RISK"
)

// LogEntry records the last time an alert of one type was delivered for a
// customer. One row per (owner, customer, alert type); updates overwrite
// LastSentAt.
type LogEntry struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID    snowflake.ID `gorm:"not null;uniqueIndex:idx_owner_customer_alert" json:"owner_id"`
	CustomerID snowflake.ID `gorm:"not null;uniqueIndex:idx_owner_customer_alert" json:"customer_id"`
	AlertType  AlertType    `gorm:"not null;uniqueIndex:idx_owner_customer_alert" json:"alert_type"`
	LastSentAt time.Time    `gorm:"not null" json:"last_sent_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (LogEntry) TableName() string {
	return "notification_log"
}

// Store is the dedup log behind alert gating. Implementations must make the
// check-cooldown-then-mark sequence atomic per owner together with the
// evaluator's critical section.
type Store interface {
	// WasRecentlyNotified reports whether an entry exists for the key whose
	// timestamp is within cooldownDays of now, counting whole elapsed days.
	WasRecentlyNotified(ctx context.Context, ownerID, customerID snowflake.ID, alertType AlertType, cooldownDays int, now time.Time) (bool, error)
	// RecordSent upserts the last-sent timestamp for the key.
	RecordSent(ctx context.Context, ownerID, customerID snowflake.ID, alertType AlertType, now time.Time) error
}

// Runner triggers alert evaluation for a single owner. Recording a purchase
// and the scheduled sweep both go through this.
type Runner interface {
	RunForOwner(ctx context.Context, ownerID snowflake.ID) error
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
)
