package engine

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/segmentation/domain"
)

// PurchaseEvent is one cleaned transaction row fed into the aggregator.
// A zero InvoiceDate marks a row whose date could not be parsed; such rows
// are dropped before aggregation.
type PurchaseEvent struct {
	CustomerID  snowflake.ID
	InvoiceDate time.Time
	Amount      int64
}

// RFMResult is the outcome of one aggregation run. Records is empty when no
// valid transaction survived cleaning; callers must distinguish that case
// from "no customers queried".
type RFMResult struct {
	// Snapshot is the global reference date: one day after the most recent
	// valid transaction date across the whole cohort.
	Snapshot time.Time
	Records  map[snowflake.ID]domain.RFMRecord
}

// AggregateRFM reduces a transaction stream into one RFM record per customer
// with at least one valid transaction. Pure function of its input.
func AggregateRFM(events []PurchaseEvent) RFMResult {
	result := RFMResult{Records: make(map[snowflake.ID]domain.RFMRecord)}

	var maxDate time.Time
	valid := make([]PurchaseEvent, 0, len(events))
	for _, ev := range events {
		if ev.InvoiceDate.IsZero() {
			continue
		}
		day := truncateToDay(ev.InvoiceDate)
		if day.After(maxDate) {
			maxDate = day
		}
		ev.InvoiceDate = day
		valid = append(valid, ev)
	}
	if len(valid) == 0 {
		return result
	}

	result.Snapshot = maxDate.AddDate(0, 0, 1)

	for _, ev := range valid {
		rec, ok := result.Records[ev.CustomerID]
		if !ok {
			rec = domain.RFMRecord{CustomerID: ev.CustomerID}
		}
		rec.Frequency++
		rec.Monetary += ev.Amount
		if ev.InvoiceDate.After(rec.LastPurchase) {
			rec.LastPurchase = ev.InvoiceDate
		}
		result.Records[ev.CustomerID] = rec
	}

	for id, rec := range result.Records {
		rec.RecencyDays = daysBetween(rec.LastPurchase, result.Snapshot)
		result.Records[id] = rec
	}

	return result
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
