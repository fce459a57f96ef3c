package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
	"github.com/bodegapos/backend/internal/repository/memory"
	"github.com/bodegapos/backend/internal/service"
)

type saleFixture struct {
	store     *memory.Store
	sales     *service.SaleService
	inventory *service.InventoryService
	branchID  string
	userID    string
	productID string
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	store := memory.New()
	return &saleFixture{
		store:     store,
		sales:     service.NewSaleService(store, nil, nil, true),
		inventory: service.NewInventoryService(store, nil),
		branchID:  uuid.NewString(),
		userID:    uuid.NewString(),
		productID: uuid.NewString(),
	}
}

func (f *saleFixture) seedStock(t *testing.T, productID string, qty int64) {
	t.Helper()
	_, err := f.inventory.SetStock(context.Background(), domain.SetStockRequest{
		BranchID:  f.branchID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

func (f *saleFixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	qty, err := f.store.GetStock(context.Background(), productID, f.branchID)
	require.NoError(t, err)
	return qty
}

func checkoutLine(productID string, qty, price int64) domain.CheckoutLine {
	q := decimal.NewFromInt(qty)
	p := decimal.NewFromInt(price)
	return domain.CheckoutLine{
		ProductID: productID,
		Quantity:  q,
		UnitPrice: p,
		Subtotal:  q.Mul(p),
	}
}

func TestCheckout_CashSaleDecrementsStock(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, f.productID, 10)

	sale, err := f.sales.Checkout(context.Background(), domain.CheckoutRequest{
		BranchID:      f.branchID,
		UserID:        f.userID,
		Total:         decimal.NewFromInt(200),
		PaymentMethod: domain.PaymentCash,
		Details:       []domain.CheckoutLine{checkoutLine(f.productID, 2, 100)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SaleCompleted, sale.Status)
	assert.Len(t, sale.Details, 1)

	assert.True(t, f.stock(t, f.productID).Equal(decimal.NewFromInt(8)),
		"stock should drop from 10 to 8, got %s", f.stock(t, f.productID))

	fetched, err := f.store.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Total.Equal(decimal.NewFromInt(200)))
}

func TestCheckout_Validation(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, f.productID, 10)
	customerID := uuid.NewString()

	tests := []struct {
		name string
		req  domain.CheckoutRequest
	}{
		{
			name: "empty line items",
			req: domain.CheckoutRequest{
				BranchID:      f.branchID,
				UserID:        f.userID,
				PaymentMethod: domain.PaymentCash,
			},
		},
		{
			name: "credit sale without customer",
			req: domain.CheckoutRequest{
				BranchID:      f.branchID,
				UserID:        f.userID,
				PaymentMethod: domain.PaymentCredit,
				Details:       []domain.CheckoutLine{checkoutLine(f.productID, 1, 100)},
			},
		},
		{
			name: "unknown payment method",
			req: domain.CheckoutRequest{
				BranchID:      f.branchID,
				UserID:        f.userID,
				CustomerID:    &customerID,
				PaymentMethod: "CHEQUE",
				Details:       []domain.CheckoutLine{checkoutLine(f.productID, 1, 100)},
			},
		},
		{
			name: "missing branch",
			req: domain.CheckoutRequest{
				UserID:        f.userID,
				PaymentMethod: domain.PaymentCash,
				Details:       []domain.CheckoutLine{checkoutLine(f.productID, 1, 100)},
			},
		},
		{
			name: "non-positive quantity",
			req: domain.CheckoutRequest{
				BranchID:      f.branchID,
				UserID:        f.userID,
				PaymentMethod: domain.PaymentCash,
				Details:       []domain.CheckoutLine{checkoutLine(f.productID, 0, 100)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.Checkout(context.Background(), tt.req)
			require.ErrorIs(t, err, domain.ErrValidation)
			// Nothing may be written before validation passes.
			assert.True(t, f.stock(t, f.productID).Equal(decimal.NewFromInt(10)))
		})
	}
}

func TestCheckout_UnstockedProductAbortsWholeSale(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, f.productID, 10)
	unstocked := uuid.NewString()

	_, err := f.sales.Checkout(context.Background(), domain.CheckoutRequest{
		BranchID:      f.branchID,
		UserID:        f.userID,
		Total:         decimal.NewFromInt(300),
		PaymentMethod: domain.PaymentCash,
		Details: []domain.CheckoutLine{
			checkoutLine(f.productID, 2, 100),
			checkoutLine(unstocked, 1, 100),
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// First line's decrement must have been rolled back with the rest.
	assert.True(t, f.stock(t, f.productID).Equal(decimal.NewFromInt(10)))
	sales, err := f.store.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

// failingStore injects a persistence error on the k-th stock decrement of a
// transaction.
type failingStore struct {
	repository.Store
	failAt int
}

func (s *failingStore) WithTx(ctx context.Context, fn func(repository.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Tx) error {
		return fn(&failingTx{Tx: tx, failAt: s.failAt})
	})
}

type failingTx struct {
	repository.Tx
	failAt int
	calls  int
}

func (t *failingTx) UpdateStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	t.calls++
	if t.calls == t.failAt {
		return decimal.Zero, errors.New("injected persistence failure")
	}
	return t.Tx.UpdateStockDelta(ctx, productID, branchID, delta)
}

func TestCheckout_AtomicUnderFailureAtEveryLine(t *testing.T) {
	const lines = 3
	for failAt := 1; failAt <= lines; failAt++ {
		f := newSaleFixture(t)
		customer := domain.Customer{ID: uuid.NewString(), Name: "Cliente"}
		f.store.AddCustomer(customer)

		products := make([]string, lines)
		details := make([]domain.CheckoutLine, lines)
		for i := range products {
			products[i] = uuid.NewString()
			f.seedStock(t, products[i], 10)
			details[i] = checkoutLine(products[i], 1, 100)
		}

		flaky := &failingStore{Store: f.store, failAt: failAt}
		sales := service.NewSaleService(flaky, nil, nil, true)

		_, err := sales.Checkout(context.Background(), domain.CheckoutRequest{
			BranchID:      f.branchID,
			UserID:        f.userID,
			CustomerID:    &customer.ID,
			Total:         decimal.NewFromInt(300),
			PaymentMethod: domain.PaymentCredit,
			Details:       details,
		})
		require.Error(t, err, "failAt=%d", failAt)

		for _, productID := range products {
			assert.True(t, f.stock(t, productID).Equal(decimal.NewFromInt(10)),
				"failAt=%d: stock for %s must be untouched", failAt, productID)
		}
		saleRows, err := f.store.ListSales(context.Background())
		require.NoError(t, err)
		assert.Empty(t, saleRows, "failAt=%d: no sale header may persist", failAt)

		got, err := f.store.GetCustomer(context.Background(), customer.ID)
		require.NoError(t, err)
		assert.True(t, got.CurrentBalance.IsZero(), "failAt=%d: balance must be untouched", failAt)
	}
}

// The permissive oversell policy is deliberate: checkout does not check
// availability, and stock may go negative. The floor check only exists
// behind the policy switch.
func TestCheckout_NegativeStockPolicy(t *testing.T) {
	t.Run("permissive default allows oversell", func(t *testing.T) {
		f := newSaleFixture(t)
		f.seedStock(t, f.productID, 1)

		_, err := f.sales.Checkout(context.Background(), domain.CheckoutRequest{
			BranchID:      f.branchID,
			UserID:        f.userID,
			Total:         decimal.NewFromInt(500),
			PaymentMethod: domain.PaymentCash,
			Details:       []domain.CheckoutLine{checkoutLine(f.productID, 5, 100)},
		})
		require.NoError(t, err)
		assert.True(t, f.stock(t, f.productID).Equal(decimal.NewFromInt(-4)))
	})

	t.Run("floor check rejects and rolls back", func(t *testing.T) {
		f := newSaleFixture(t)
		f.seedStock(t, f.productID, 1)
		strict := service.NewSaleService(f.store, nil, nil, false)

		_, err := strict.Checkout(context.Background(), domain.CheckoutRequest{
			BranchID:      f.branchID,
			UserID:        f.userID,
			Total:         decimal.NewFromInt(500),
			PaymentMethod: domain.PaymentCash,
			Details:       []domain.CheckoutLine{checkoutLine(f.productID, 5, 100)},
		})
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.True(t, f.stock(t, f.productID).Equal(decimal.NewFromInt(1)))

		sales, err := f.store.ListSales(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sales)
	})
}
