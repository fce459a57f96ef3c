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

type shiftFixture struct {
	store     *memory.Store
	shifts    *service.ShiftService
	sales     *service.SaleService
	inventory *service.InventoryService
	branchID  string
	userID    string
}

func newShiftFixture(t *testing.T) *shiftFixture {
	t.Helper()
	store := memory.New()
	return &shiftFixture{
		store:     store,
		shifts:    service.NewShiftService(store, nil),
		sales:     service.NewSaleService(store, nil, nil, true),
		inventory: service.NewInventoryService(store, nil),
		branchID:  uuid.NewString(),
		userID:    uuid.NewString(),
	}
}

func (f *shiftFixture) openShift(t *testing.T, initialCash int64) *domain.EmployeeShift {
	t.Helper()
	shift, err := f.shifts.OpenShift(context.Background(), domain.OpenShiftRequest{
		UserID:      f.userID,
		InitialCash: decimal.NewFromInt(initialCash),
		BranchID:    &f.branchID,
	})
	require.NoError(t, err)
	return shift
}

func (f *shiftFixture) sellCash(t *testing.T, userID string, amount int64) {
	t.Helper()
	productID := uuid.NewString()
	_, err := f.inventory.SetStock(context.Background(), domain.SetStockRequest{
		BranchID:  f.branchID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = f.sales.Checkout(context.Background(), domain.CheckoutRequest{
		BranchID:      f.branchID,
		UserID:        userID,
		Total:         decimal.NewFromInt(amount),
		PaymentMethod: domain.PaymentCash,
		Details:       []domain.CheckoutLine{checkoutLine(productID, 1, amount)},
	})
	require.NoError(t, err)
}

func (f *shiftFixture) moveCash(t *testing.T, kind string, amount int64) {
	t.Helper()
	_, err := f.shifts.CreateCashMovement(context.Background(), domain.CashMovementRequest{
		Type:     kind,
		Amount:   decimal.NewFromInt(amount),
		Reason:   "caja chica",
		BranchID: f.branchID,
		UserID:   f.userID,
	})
	require.NoError(t, err)
}

func TestCloseShift_ReconciliationIsDeterministic(t *testing.T) {
	tests := []struct {
		name       string
		actual     int64
		difference int64
	}{
		{name: "exact count", actual: 130, difference: 0},
		{name: "short drawer", actual: 125, difference: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newShiftFixture(t)
			shift := f.openShift(t, 100)

			// Inside the shift window: +50 cash sale, -20 payout.
			f.sellCash(t, f.userID, 50)
			f.moveCash(t, domain.MovementOut, 20)

			closed, err := f.shifts.CloseShift(context.Background(), shift.ID, domain.CloseShiftRequest{
				FinalCashActual: decimal.NewFromInt(tt.actual),
			})
			require.NoError(t, err)

			require.True(t, closed.FinalCashExpected.Valid)
			require.True(t, closed.FinalCashActual.Valid)
			require.True(t, closed.Difference.Valid)
			assert.True(t, closed.FinalCashExpected.Decimal.Equal(decimal.NewFromInt(130)),
				"expected 100 + 50 - 20, got %s", closed.FinalCashExpected.Decimal)
			assert.True(t, closed.Difference.Decimal.Equal(decimal.NewFromInt(tt.difference)))
			require.NotNil(t, closed.EndTime)
		})
	}
}

func TestCloseShift_IgnoresOtherUsersAndNonCashSales(t *testing.T) {
	f := newShiftFixture(t)
	shift := f.openShift(t, 100)

	// Another cashier's cash sale and this cashier's card sale are both
	// outside the reconciliation basis.
	f.sellCash(t, uuid.NewString(), 999)

	productID := uuid.NewString()
	_, err := f.inventory.SetStock(context.Background(), domain.SetStockRequest{
		BranchID:  f.branchID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = f.sales.Checkout(context.Background(), domain.CheckoutRequest{
		BranchID:      f.branchID,
		UserID:        f.userID,
		Total:         decimal.NewFromInt(75),
		PaymentMethod: domain.PaymentTransfer,
		Details:       []domain.CheckoutLine{checkoutLine(productID, 1, 75)},
	})
	require.NoError(t, err)

	closed, err := f.shifts.CloseShift(context.Background(), shift.ID, domain.CloseShiftRequest{
		FinalCashActual: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.True(t, closed.FinalCashExpected.Valid)
	assert.True(t, closed.FinalCashExpected.Decimal.Equal(decimal.NewFromInt(100)))
	assert.True(t, closed.Difference.Decimal.IsZero())
}

func TestOpenShift_ForceClosesPriorOpenShift(t *testing.T) {
	f := newShiftFixture(t)
	first := f.openShift(t, 100)
	second := f.openShift(t, 50)

	shifts, err := f.shifts.ListShifts(context.Background())
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	abandoned, err := f.store.GetShift(context.Background(), first.ID)
	require.NoError(t, err)
	require.NotNil(t, abandoned.EndTime, "prior shift must be closed")
	// Force-close sets only the end time; no reconciliation happened.
	assert.False(t, abandoned.FinalCashExpected.Valid)
	assert.False(t, abandoned.FinalCashActual.Valid)
	assert.False(t, abandoned.Difference.Valid)

	current, err := f.store.GetShift(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, current.Open())
}

func TestCloseShift_UnknownShift(t *testing.T) {
	f := newShiftFixture(t)
	_, err := f.shifts.CloseShift(context.Background(), uuid.NewString(), domain.CloseShiftRequest{
		FinalCashActual: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCashMovementValidation(t *testing.T) {
	f := newShiftFixture(t)
	_, err := f.shifts.CreateCashMovement(context.Background(), domain.CashMovementRequest{
		Type:     "SIDEWAYS",
		Amount:   decimal.NewFromInt(10),
		BranchID: f.branchID,
		UserID:   f.userID,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpensesDoNotAffectReconciliation(t *testing.T) {
	f := newShiftFixture(t)
	shift := f.openShift(t, 100)

	_, err := f.shifts.CreateExpense(context.Background(), domain.ExpenseRequest{
		Amount:      decimal.NewFromInt(40),
		Description: "luz",
		Category:    "servicios",
		BranchID:    f.branchID,
	})
	require.NoError(t, err)

	closed, err := f.shifts.CloseShift(context.Background(), shift.ID, domain.CloseShiftRequest{
		FinalCashActual: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, closed.FinalCashExpected.Decimal.Equal(decimal.NewFromInt(100)))
}
