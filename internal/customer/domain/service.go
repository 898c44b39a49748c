package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/segmenta/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Phone     string
}

type ListCustomerFilter struct {
	Name  string
	Phone string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name             string
	Phone            string
	RegistrationDate *time.Time
	Description      string
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
