package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	ListAll(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*Customer, error)
	DistinctOwners(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
}
