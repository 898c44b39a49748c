package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/notification/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	GenID *snowflake.Node
}

type store struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func Provide(p Params) domain.Store {
	return &store{db: p.DB, genID: p.GenID}
}

func (s *store) WasRecentlyNotified(ctx context.Context, ownerID, customerID snowflake.ID, alertType domain.AlertType, cooldownDays int, now time.Time) (bool, error) {
	var entry domain.LogEntry
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND customer_id = ? AND alert_type = ?", ownerID, customerID, alertType).
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return false, err
	}
	if entry.ID == 0 {
		return false, nil
	}
	if cooldownDays <= 0 {
		return true, nil
	}

	elapsedDays := int(now.UTC().Sub(entry.LastSentAt.UTC()) / (24 * time.Hour))
	return elapsedDays < cooldownDays, nil
}

func (s *store) RecordSent(ctx context.Context, ownerID, customerID snowflake.ID, alertType domain.AlertType, now time.Time) error {
	entry := domain.LogEntry{
		ID:         s.genID.Generate(),
		OwnerID:    ownerID,
		CustomerID: customerID,
		AlertType:  alertType,
		LastSentAt: now.UTC(),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "customer_id"}, {Name: "alert_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_sent_at": entry.LastSentAt,
				"updated_at":   entry.UpdatedAt,
			}),
		}).
		Create(&entry).Error
}
