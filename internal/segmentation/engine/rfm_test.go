package engine

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateRFM_SingleCustomer(t *testing.T) {
	customerID := snowflake.ID(100)
	events := []PurchaseEvent{
		{CustomerID: customerID, InvoiceDate: day(2025, 6, 1), Amount: 100_000},
		{CustomerID: customerID, InvoiceDate: day(2025, 7, 11), Amount: 150_000},
		{CustomerID: customerID, InvoiceDate: day(2025, 7, 26), Amount: 200_000},
	}

	result := AggregateRFM(events)

	assert.Equal(t, day(2025, 7, 27), result.Snapshot)

	rec, ok := result.Records[customerID]
	require.True(t, ok)
	assert.Equal(t, 1, rec.RecencyDays)
	assert.Equal(t, 3, rec.Frequency)
	assert.Equal(t, int64(450_000), rec.Monetary)
	assert.Equal(t, day(2025, 7, 26), rec.LastPurchase)
}

func TestAggregateRFM_SnapshotIsGlobal(t *testing.T) {
	// The snapshot is one day past the cohort-wide max date, so the stale
	// customer's recency is measured against the active customer's purchases.
	events := []PurchaseEvent{
		{CustomerID: 1, InvoiceDate: day(2025, 8, 20), Amount: 50_000},
		{CustomerID: 2, InvoiceDate: day(2025, 5, 1), Amount: 75_000},
	}

	result := AggregateRFM(events)

	assert.Equal(t, day(2025, 8, 21), result.Snapshot)
	assert.Equal(t, 1, result.Records[1].RecencyDays)
	assert.Equal(t, 112, result.Records[2].RecencyDays)
}

func TestAggregateRFM_CohortScenario(t *testing.T) {
	// Customer A buys 100000, 150000, 200000 at 60, 20 and 5 days before the
	// snapshot; customer B's purchase on the day before the snapshot pins it.
	snapshot := day(2025, 8, 1)
	events := []PurchaseEvent{
		{CustomerID: 1, InvoiceDate: snapshot.AddDate(0, 0, -60), Amount: 100_000},
		{CustomerID: 1, InvoiceDate: snapshot.AddDate(0, 0, -20), Amount: 150_000},
		{CustomerID: 1, InvoiceDate: snapshot.AddDate(0, 0, -5), Amount: 200_000},
		{CustomerID: 2, InvoiceDate: snapshot.AddDate(0, 0, -1), Amount: 10_000},
	}

	result := AggregateRFM(events)
	require.Equal(t, snapshot, result.Snapshot)

	rec := result.Records[1]
	assert.Equal(t, 5, rec.RecencyDays)
	assert.Equal(t, 3, rec.Frequency)
	assert.Equal(t, int64(450_000), rec.Monetary)
}

func TestAggregateRFM_DropsInvalidDates(t *testing.T) {
	events := []PurchaseEvent{
		{CustomerID: 1, InvoiceDate: time.Time{}, Amount: 999_999},
		{CustomerID: 1, InvoiceDate: day(2025, 3, 10), Amount: 40_000},
	}

	result := AggregateRFM(events)

	rec := result.Records[1]
	assert.Equal(t, 1, rec.Frequency)
	assert.Equal(t, int64(40_000), rec.Monetary)
}

func TestAggregateRFM_AllInvalid(t *testing.T) {
	events := []PurchaseEvent{
		{CustomerID: 1, InvoiceDate: time.Time{}, Amount: 10},
	}

	result := AggregateRFM(events)

	assert.Empty(t, result.Records)
	assert.True(t, result.Snapshot.IsZero())
}

func TestAggregateRFM_TruncatesTimestamps(t *testing.T) {
	// Two purchases at different times of the same day count toward the same
	// day; recency is measured in whole days.
	events := []PurchaseEvent{
		{CustomerID: 1, InvoiceDate: time.Date(2025, 4, 5, 9, 30, 0, 0, time.UTC), Amount: 10_000},
		{CustomerID: 1, InvoiceDate: time.Date(2025, 4, 5, 23, 59, 59, 0, time.UTC), Amount: 20_000},
	}

	result := AggregateRFM(events)

	rec := result.Records[1]
	assert.Equal(t, day(2025, 4, 5), rec.LastPurchase)
	assert.Equal(t, 1, rec.RecencyDays)
	assert.Equal(t, 2, rec.Frequency)
}
