package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	notificationdomain "github.com/smallbiznis/segmenta/internal/notification/domain"
	"github.com/smallbiznis/segmenta/internal/orgcontext"
	"github.com/smallbiznis/segmenta/internal/transaction/domain"
	"github.com/smallbiznis/segmenta/pkg/db"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	Alerts       notificationdomain.Runner `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	customerRepo customerdomain.Repository
	alerts       notificationdomain.Runner
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("transaction.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		alerts:       p.Alerts,
	}
}

// Record appends one purchase for an existing customer and then re-evaluates
// the owner's alerts. Alert failures never fail the recording.
func (s *Service) Record(ctx context.Context, req domain.RecordTransactionRequest) (domain.Transaction, error) {
	ownerID, ok := orgcontext.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Transaction{}, domain.ErrInvalidOwner
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return domain.Transaction{}, domain.ErrInvalidCustomer
	}

	invoiceNumber := strings.TrimSpace(req.InvoiceNumber)
	if invoiceNumber == "" {
		return domain.Transaction{}, domain.ErrInvalidInvoiceNo
	}

	invoiceDate, err := parseInvoiceDate(req.InvoiceDate)
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidInvoiceDate
	}

	if req.Amount <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, ownerID, customerID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if customer == nil {
		return domain.Transaction{}, domain.ErrCustomerNotFound
	}

	txn := domain.Transaction{
		ID:            s.genID.Generate(),
		OwnerID:       ownerID,
		CustomerID:    customerID,
		InvoiceNumber: invoiceNumber,
		InvoiceDate:   invoiceDate,
		Amount:        req.Amount,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &txn); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Transaction{}, domain.ErrDuplicateInvoice
		}
		return domain.Transaction{}, err
	}

	if s.alerts != nil {
		if err := s.alerts.RunForOwner(ctx, ownerID); err != nil {
			s.log.Warn("alert evaluation after purchase failed",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err),
			)
		}
	}

	return txn, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionRequest) (domain.ListTransactionResponse, error) {
	ownerID, ok := orgcontext.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ListTransactionResponse{}, domain.ErrInvalidOwner
	}

	filter := domain.ListTransactionFilter{
		CustomerID: strings.TrimSpace(req.CustomerID),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, ownerID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListTransactionResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(txn *domain.Transaction) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        txn.ID.String(),
			CreatedAt: txn.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	txns := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		txns = append(txns, *item)
	}

	resp := domain.ListTransactionResponse{Transactions: txns}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

// parseInvoiceDate accepts a bare date or a full RFC 3339 timestamp.
func parseInvoiceDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
