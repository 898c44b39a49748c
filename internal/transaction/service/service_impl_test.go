package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	customerrepo "github.com/smallbiznis/segmenta/internal/customer/repository"
	"github.com/smallbiznis/segmenta/internal/orgcontext"
	"github.com/smallbiznis/segmenta/internal/transaction/domain"
	transactionrepo "github.com/smallbiznis/segmenta/internal/transaction/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordingRunner struct {
	mu     sync.Mutex
	owners []snowflake.ID
}

func (r *recordingRunner) RunForOwner(ctx context.Context, ownerID snowflake.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, ownerID)
	return nil
}

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	owner    snowflake.ID
	customer snowflake.ID
	runner   *recordingRunner
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&customerdomain.Customer{}, &domain.Transaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	runner := &recordingRunner{}
	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         transactionrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		Alerts:       runner,
	})

	owner := node.Generate()
	customer := customerdomain.Customer{
		ID:               node.Generate(),
		OwnerID:          owner,
		Name:             "Budi",
		RegistrationDate: time.Now().UTC(),
		Metadata:         datatypes.JSONMap{},
	}
	require.NoError(t, db.Create(&customer).Error)

	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		owner:    owner,
		customer: customer.ID,
		runner:   runner,
	}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOwnerID(context.Background(), f.owner)
}

func TestRecord_Success(t *testing.T) {
	f := setup(t)

	txn, err := f.svc.Record(f.ctx(), domain.RecordTransactionRequest{
		CustomerID:    f.customer.String(),
		InvoiceNumber: "INV-001",
		InvoiceDate:   "2025-08-01",
		Amount:        125_000,
	})
	require.NoError(t, err)

	assert.Equal(t, f.owner, txn.OwnerID)
	assert.Equal(t, f.customer, txn.CustomerID)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), txn.InvoiceDate)
	assert.Equal(t, int64(125_000), txn.Amount)

	// Recording a purchase re-evaluates the owner's alerts.
	require.Len(t, f.runner.owners, 1)
	assert.Equal(t, f.owner, f.runner.owners[0])
}

func TestRecord_AcceptsRFC3339(t *testing.T) {
	f := setup(t)

	txn, err := f.svc.Record(f.ctx(), domain.RecordTransactionRequest{
		CustomerID:    f.customer.String(),
		InvoiceNumber: "INV-002",
		InvoiceDate:   "2025-08-01T14:30:00+07:00",
		Amount:        50_000,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 1, 7, 30, 0, 0, time.UTC), txn.InvoiceDate)
}

func TestRecord_Validation(t *testing.T) {
	f := setup(t)

	cases := []struct {
		name string
		req  domain.RecordTransactionRequest
		want error
	}{
		{
			name: "bad customer id",
			req:  domain.RecordTransactionRequest{CustomerID: "nope", InvoiceNumber: "I-1", InvoiceDate: "2025-08-01", Amount: 100},
			want: domain.ErrInvalidCustomer,
		},
		{
			name: "missing invoice number",
			req:  domain.RecordTransactionRequest{CustomerID: f.customer.String(), InvoiceNumber: "  ", InvoiceDate: "2025-08-01", Amount: 100},
			want: domain.ErrInvalidInvoiceNo,
		},
		{
			name: "bad date",
			req:  domain.RecordTransactionRequest{CustomerID: f.customer.String(), InvoiceNumber: "I-1", InvoiceDate: "01/08/2025", Amount: 100},
			want: domain.ErrInvalidInvoiceDate,
		},
		{
			name: "non-positive amount",
			req:  domain.RecordTransactionRequest{CustomerID: f.customer.String(), InvoiceNumber: "I-1", InvoiceDate: "2025-08-01", Amount: 0},
			want: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Record(f.ctx(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Validation failures never trigger alert evaluation.
	assert.Empty(t, f.runner.owners)
}

func TestRecord_UnknownCustomer(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Record(f.ctx(), domain.RecordTransactionRequest{
		CustomerID:    f.node.Generate().String(),
		InvoiceNumber: "INV-003",
		InvoiceDate:   "2025-08-01",
		Amount:        100,
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestRecord_DuplicateInvoice(t *testing.T) {
	f := setup(t)

	req := domain.RecordTransactionRequest{
		CustomerID:    f.customer.String(),
		InvoiceNumber: "INV-DUP",
		InvoiceDate:   "2025-08-01",
		Amount:        100,
	}

	_, err := f.svc.Record(f.ctx(), req)
	require.NoError(t, err)

	_, err = f.svc.Record(f.ctx(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoice)
}

func TestRecord_MissingOwner(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Record(context.Background(), domain.RecordTransactionRequest{
		CustomerID:    f.customer.String(),
		InvoiceNumber: "INV-004",
		InvoiceDate:   "2025-08-01",
		Amount:        100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestList_FiltersByCustomer(t *testing.T) {
	f := setup(t)

	other := customerdomain.Customer{
		ID:               f.node.Generate(),
		OwnerID:          f.owner,
		Name:             "Siti",
		RegistrationDate: time.Now().UTC(),
		Metadata:         datatypes.JSONMap{},
	}
	require.NoError(t, f.db.Create(&other).Error)

	for i, customerID := range []snowflake.ID{f.customer, f.customer, other.ID} {
		_, err := f.svc.Record(f.ctx(), domain.RecordTransactionRequest{
			CustomerID:    customerID.String(),
			InvoiceNumber: fmt.Sprintf("INV-L%d", i),
			InvoiceDate:   "2025-08-01",
			Amount:        100,
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(f.ctx(), domain.ListTransactionRequest{CustomerID: f.customer.String()})
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 2)

	resp, err = f.svc.List(f.ctx(), domain.ListTransactionRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 3)
}
