package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository/memory"
	"github.com/bodegapos/backend/internal/service"
)

func TestCreditSaleThenPayment_BalanceRoundTrip(t *testing.T) {
	store := memory.New()
	credit := service.NewCreditService(store)
	sales := service.NewSaleService(store, nil, nil, true)
	inventory := service.NewInventoryService(store, nil)

	branchID := uuid.NewString()
	productID := uuid.NewString()
	customer := domain.Customer{ID: uuid.NewString(), Name: "Doña Rosa", BranchID: &branchID}
	store.AddCustomer(customer)

	_, err := inventory.SetStock(context.Background(), domain.SetStockRequest{
		BranchID:  branchID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// A fractional total exercises exact decimal arithmetic: the balance
	// must return to exactly zero, not to a float neighborhood of it.
	total := decimal.RequireFromString("199.99")
	qty := decimal.NewFromInt(1)
	_, err = sales.Checkout(context.Background(), domain.CheckoutRequest{
		BranchID:      branchID,
		UserID:        uuid.NewString(),
		CustomerID:    &customer.ID,
		Total:         total,
		PaymentMethod: domain.PaymentCredit,
		Details: []domain.CheckoutLine{{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: total,
			Subtotal:  total,
		}},
	})
	require.NoError(t, err)

	afterSale, err := credit.GetCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, afterSale.CurrentBalance.Equal(total),
		"debt should equal the sale total, got %s", afterSale.CurrentBalance)

	// Pay the debt off in two uneven installments.
	for _, amount := range []string{"100.49", "99.50"} {
		_, err := credit.RecordPayment(context.Background(), domain.PaymentRequest{
			CustomerID:    customer.ID,
			Amount:        decimal.RequireFromString(amount),
			PaymentMethod: domain.PaymentCash,
		})
		require.NoError(t, err)
	}

	settled, err := credit.GetCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, settled.CurrentBalance.IsZero(),
		"balance should be exactly zero, got %s", settled.CurrentBalance)
	assert.Len(t, store.ListCreditPayments(), 2)
}

func TestRecordPayment_OverpaymentGoesNegative(t *testing.T) {
	store := memory.New()
	credit := service.NewCreditService(store)

	customer := domain.Customer{
		ID:             uuid.NewString(),
		Name:           "Cliente",
		CurrentBalance: decimal.NewFromInt(50),
	}
	store.AddCustomer(customer)

	_, err := credit.RecordPayment(context.Background(), domain.PaymentRequest{
		CustomerID:    customer.ID,
		Amount:        decimal.NewFromInt(80),
		PaymentMethod: domain.PaymentTransfer,
	})
	require.NoError(t, err)

	got, err := credit.GetCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(-30)),
		"overpayment is store credit, got %s", got.CurrentBalance)
}

func TestRecordPayment_Validation(t *testing.T) {
	store := memory.New()
	credit := service.NewCreditService(store)
	customer := domain.Customer{ID: uuid.NewString(), Name: "Cliente"}
	store.AddCustomer(customer)

	tests := []struct {
		name string
		req  domain.PaymentRequest
	}{
		{
			name: "missing customer",
			req:  domain.PaymentRequest{Amount: decimal.NewFromInt(10), PaymentMethod: domain.PaymentCash},
		},
		{
			name: "non-positive amount",
			req:  domain.PaymentRequest{CustomerID: customer.ID, PaymentMethod: domain.PaymentCash},
		},
		{
			name: "credit cannot pay credit",
			req: domain.PaymentRequest{
				CustomerID:    customer.ID,
				Amount:        decimal.NewFromInt(10),
				PaymentMethod: domain.PaymentCredit,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := credit.RecordPayment(context.Background(), tt.req)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRecordPayment_UnknownCustomerRollsBack(t *testing.T) {
	store := memory.New()
	credit := service.NewCreditService(store)

	_, err := credit.RecordPayment(context.Background(), domain.PaymentRequest{
		CustomerID:    uuid.NewString(),
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: domain.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.ListCreditPayments(), "no payment row may survive the rollback")
}
