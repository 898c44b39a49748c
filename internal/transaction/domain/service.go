package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/segmenta/pkg/db/pagination"
)

type RecordTransactionRequest struct {
	CustomerID    string
	InvoiceNumber string
	InvoiceDate   string
	Amount        int64
}

type ListTransactionRequest struct {
	PageToken  string
	PageSize   int32
	CustomerID string
}

type ListTransactionFilter struct {
	CustomerID string
}

type ListTransactionResponse struct {
	pagination.PageInfo
	Transactions []Transaction `json:"transactions"`
}

type Service interface {
	Record(context.Context, RecordTransactionRequest) (Transaction, error)
	List(context.Context, ListTransactionRequest) (ListTransactionResponse, error)
}

var (
	ErrInvalidOwner       = errors.New("invalid_owner")
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrCustomerNotFound   = errors.New("customer_not_found")
	ErrInvalidInvoiceNo   = errors.New("invalid_invoice_number")
	ErrInvalidInvoiceDate = errors.New("invalid_invoice_date")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrDuplicateInvoice   = errors.New("duplicate_invoice")
)
