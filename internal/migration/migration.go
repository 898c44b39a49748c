package migration

import (
	"errors"

	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	notificationdomain "github.com/smallbiznis/segmenta/internal/notification/domain"
	transactiondomain "github.com/smallbiznis/segmenta/internal/transaction/domain"
	"gorm.io/gorm"
)

// RunMigrations creates the core tables on startup so the service is usable
// out of the box for local and self-hosted environments.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	return db.AutoMigrate(
		&customerdomain.Customer{},
		&transactiondomain.Transaction{},
		&notificationdomain.LogEntry{},
	)
}
