package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, txn *Transaction) error
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*Transaction, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListTransactionFilter, page pagination.Pagination) ([]*Transaction, error)
}
