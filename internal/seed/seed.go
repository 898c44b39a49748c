package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	transactiondomain "github.com/smallbiznis/segmenta/internal/transaction/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoOwnerID = snowflake.ID(1)

type demoCustomer struct {
	name      string
	phone     string
	purchases []demoPurchase
}

type demoPurchase struct {
	daysAgo int
	amount  int64
}

// demoCustomers covers the interesting corners: a heavy recent buyer, a
// fading regular, a long-gone one-off, and a customer with no purchases.
var demoCustomers = []demoCustomer{
	{
		name:  "Budi Santoso",
		phone: "+62811000001",
		purchases: []demoPurchase{
			{daysAgo: 3, amount: 250_000},
			{daysAgo: 12, amount: 175_000},
			{daysAgo: 25, amount: 300_000},
			{daysAgo: 41, amount: 150_000},
		},
	},
	{
		name:  "Siti Rahma",
		phone: "+62811000002",
		purchases: []demoPurchase{
			{daysAgo: 55, amount: 120_000},
			{daysAgo: 80, amount: 90_000},
			{daysAgo: 140, amount: 110_000},
		},
	},
	{
		name:  "Agus Wijaya",
		phone: "+62811000003",
		purchases: []demoPurchase{
			{daysAgo: 200, amount: 60_000},
		},
	},
	{
		name:      "Dewi Lestari",
		phone:     "+62811000004",
		purchases: nil,
	},
}

// EnsureDemoData seeds one demo owner with a small cohort so a fresh install
// has something to segment. Idempotent: an owner that already has customers
// is left alone.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&customerdomain.Customer{}).
			Where("owner_id = ?", demoOwnerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for i, demo := range demoCustomers {
			customer := customerdomain.Customer{
				ID:               node.Generate(),
				OwnerID:          demoOwnerID,
				Name:             demo.name,
				Phone:            demo.phone,
				RegistrationDate: now.AddDate(0, -8, 0),
				Metadata:         datatypes.JSONMap{"seed": true},
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}

			for j, purchase := range demo.purchases {
				txn := transactiondomain.Transaction{
					ID:            node.Generate(),
					OwnerID:       demoOwnerID,
					CustomerID:    customer.ID,
					InvoiceNumber: demoInvoiceNumber(i, j),
					InvoiceDate:   now.AddDate(0, 0, -purchase.daysAgo),
					Amount:        purchase.amount,
					CreatedAt:     now,
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func demoInvoiceNumber(customerIdx, purchaseIdx int) string {
	return fmt.Sprintf("DEMO-%d-%d", customerIdx+1, purchaseIdx+1)
}
