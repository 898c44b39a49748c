package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/customer/domain"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ?", ownerID)
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.Phone != "" {
		stmt = stmt.Where("phone = ?", filter.Phone)
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
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) DistinctOwners(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var owners []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Distinct("owner_id").
		Order("owner_id asc").
		Pluck("owner_id", &owners).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}
