package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/transaction/domain"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	err := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("owner_id = ?", ownerID).
		Order("invoice_date asc, id asc").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListTransactionFilter, page pagination.Pagination) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	stmt := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("owner_id = ?", ownerID)
	if filter.CustomerID != "" {
		if customerID, err := snowflake.ParseString(filter.CustomerID); err == nil {
			stmt = stmt.Where("customer_id = ?", customerID)
		}
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil && cursor.ID != "" {
			if cursorID, parseErr := snowflake.ParseString(cursor.ID); parseErr == nil {
				stmt = stmt.Where("id < ?", cursorID)
			}
		}
	}
	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
