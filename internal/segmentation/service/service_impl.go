package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	"github.com/smallbiznis/segmenta/internal/segmentation/domain"
	"github.com/smallbiznis/segmenta/internal/segmentation/engine"
	transactiondomain "github.com/smallbiznis/segmenta/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	CustomerRepo    customerdomain.Repository
	TransactionRepo transactiondomain.Repository
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	customerRepo    customerdomain.Repository
	transactionRepo transactiondomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("segmentation.service"),
		customerRepo:    p.CustomerRepo,
		transactionRepo: p.TransactionRepo,
	}
}

// BuildSegments produces the segmented customer table for one owner. The
// snapshot date and all three score columns are computed over the owner's
// whole cohort in one pass, so the table is internally consistent.
func (s *Service) BuildSegments(ctx context.Context, req domain.BuildSegmentsRequest) (domain.BuildSegmentsResponse, error) {
	if req.OwnerID == 0 {
		return domain.BuildSegmentsResponse{}, domain.ErrInvalidOwner
	}

	customers, err := s.customerRepo.ListAll(ctx, s.db, req.OwnerID)
	if err != nil {
		return domain.BuildSegmentsResponse{}, err
	}

	txns, err := s.transactionRepo.ListByOwner(ctx, s.db, req.OwnerID)
	if err != nil {
		return domain.BuildSegmentsResponse{}, err
	}

	events := make([]engine.PurchaseEvent, 0, len(txns))
	for _, txn := range txns {
		if txn == nil {
			continue
		}
		events = append(events, engine.PurchaseEvent{
			CustomerID:  txn.CustomerID,
			InvoiceDate: txn.InvoiceDate,
			Amount:      txn.Amount,
		})
	}

	rfm := engine.AggregateRFM(events)

	recency := make(map[snowflake.ID]float64, len(rfm.Records))
	frequency := make(map[snowflake.ID]float64, len(rfm.Records))
	monetary := make(map[snowflake.ID]float64, len(rfm.Records))
	for id, rec := range rfm.Records {
		recency[id] = float64(rec.RecencyDays)
		frequency[id] = float64(rec.Frequency)
		monetary[id] = float64(rec.Monetary)
	}

	recencyScores := engine.ScoreColumn(recency, engine.MetricRecency)
	frequencyScores := engine.ScoreColumn(frequency, engine.MetricFrequency)
	monetaryScores := engine.ScoreColumn(monetary, engine.MetricMonetary)

	rows := make([]domain.SegmentedCustomer, 0, len(customers))
	for _, customer := range customers {
		if customer == nil {
			continue
		}

		row := domain.SegmentedCustomer{
			CustomerID:       customer.ID,
			Name:             customer.Name,
			Phone:            customer.Phone,
			RegistrationDate: customer.RegistrationDate,
			Description:      customer.Description,
		}

		rec, ok := rfm.Records[customer.ID]
		if !ok {
			// No valid transactions: the rule chain is bypassed entirely.
			row.TAMStatus = domain.TAMNoPurchase
			row.Segment = domain.SegmentNoTransactions
			rows = append(rows, row)
			continue
		}

		lastPurchase := rec.LastPurchase
		recencyDays := rec.RecencyDays
		row.LastPurchaseDate = &lastPurchase
		row.RecencyDays = &recencyDays
		row.TotalPurchases = rec.Frequency
		row.TotalSpend = rec.Monetary
		row.RecencyScore = recencyScores[customer.ID]
		row.FrequencyScore = frequencyScores[customer.ID]
		row.MonetaryScore = monetaryScores[customer.ID]
		row.TAMStatus = engine.ClassifyTAM(rec.RecencyDays)
		row.Segment = engine.AssignSegment(domain.Scores{
			Recency:   row.RecencyScore,
			Frequency: row.FrequencyScore,
			Monetary:  row.MonetaryScore,
		}, row.TAMStatus)

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CustomerID < rows[j].CustomerID
	})

	return domain.BuildSegmentsResponse{Customers: rows}, nil
}
