package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TAMStatus is the coarse activity status derived solely from recency.
type TAMStatus string

const (
	TAMActive     TAMStatus = "Active"
	TAMAtRisk     TAMStatus = "At Risk"
	TAMInactive   TAMStatus = "Inactive"
	TAMLost       TAMStatus = "Lost"
	TAMNoPurchase TAMStatus = "No Purchase"
)

// Segment is the behavioral label assigned from scores and TAM status.
type Segment string

const (
	SegmentChampion       Segment = "Champion"
	SegmentLoyal          Segment = "Loyal"
	SegmentPromising      Segment = "Promising"
	SegmentAtRisk         Segment = "At-Risk"
	SegmentInactive       Segment = "Inactive"
	SegmentLost           Segment = "Lost"
	SegmentRegular        Segment = "Regular"
	SegmentNoTransactions Segment = "No-Transactions"
)

// RFMRecord summarizes the purchase history of one customer with at least one
// valid transaction.
type RFMRecord struct {
	CustomerID   snowflake.ID
	RecencyDays  int
	Frequency    int
	Monetary     int64
	LastPurchase time.Time
}

// Scores holds the three ordinal scores. 0 means the metric could not be
// scored; 1-5 is the quintile rank with 5 always the most favorable.
type Scores struct {
	Recency   int
	Frequency int
	Monetary  int
}

// SegmentedCustomer is one row of the segmented customer table.
type SegmentedCustomer struct {
	CustomerID       snowflake.ID `json:"customer_id"`
	Name             string       `json:"name"`
	Phone            string       `json:"phone"`
	RegistrationDate time.Time    `json:"registration_date"`
	Description      string       `json:"description"`
	LastPurchaseDate *time.Time   `json:"last_purchase_date"`
	TotalPurchases   int          `json:"total_purchases"`
	TotalSpend       int64        `json:"total_spend"`
	RecencyDays      *int         `json:"recency_days"`
	RecencyScore     int          `json:"recency_score"`
	FrequencyScore   int          `json:"frequency_score"`
	MonetaryScore    int          `json:"monetary_score"`
	TAMStatus        TAMStatus    `json:"tam_status"`
	Segment          Segment      `json:"segment"`
}

type BuildSegmentsRequest struct {
	OwnerID snowflake.ID
}

type BuildSegmentsResponse struct {
	Customers []SegmentedCustomer `json:"customers"`
}

// Service builds the segmented customer table for one owner.
type Service interface {
	BuildSegments(ctx context.Context, req BuildSegmentsRequest) (BuildSegmentsResponse, error)
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
)
