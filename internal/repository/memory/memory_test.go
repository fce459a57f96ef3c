package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
	"github.com/bodegapos/backend/internal/repository/memory"
)

func TestWithTx_RollbackRestoresEverything(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	branchID := uuid.NewString()
	productID := uuid.NewString()
	customer := domain.Customer{ID: uuid.NewString(), Name: "Cliente"}
	store.AddCustomer(customer)

	err := store.WithTx(ctx, func(tx repository.Tx) error {
		_, err := tx.UpsertStockDelta(ctx, productID, branchID, decimal.NewFromInt(10))
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.UpdateStockDelta(ctx, productID, branchID, decimal.NewFromInt(-4)); err != nil {
			return err
		}
		if err := tx.AddCustomerBalance(ctx, customer.ID, decimal.NewFromInt(100)); err != nil {
			return err
		}
		if err := tx.InsertSale(ctx, &domain.SaleHeader{
			ID:            uuid.NewString(),
			BranchID:      branchID,
			UserID:        uuid.NewString(),
			Total:         decimal.NewFromInt(100),
			PaymentMethod: domain.PaymentCash,
			Status:        domain.SaleCompleted,
			Date:          time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	qty, err := store.GetStock(ctx, productID, branchID)
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)))

	got, err := store.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.IsZero())

	sales, err := store.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestGetStock_MissingRowIsZero(t *testing.T) {
	store := memory.New()
	qty, err := store.GetStock(context.Background(), uuid.NewString(), uuid.NewString())
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestUpdateStockDelta_MissingRowIsNotFound(t *testing.T) {
	store := memory.New()
	err := store.WithTx(context.Background(), func(tx repository.Tx) error {
		_, err := tx.UpdateStockDelta(context.Background(), uuid.NewString(), uuid.NewString(), decimal.NewFromInt(-1))
		return err
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkTransfer_GuardsStatus(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	transfer := &domain.StockTransfer{
		ID:             uuid.NewString(),
		SourceBranchID: uuid.NewString(),
		DestBranchID:   uuid.NewString(),
		Status:         domain.TransferPending,
		Date:           time.Now().UTC(),
	}
	err := store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.InsertTransfer(ctx, transfer)
	})
	require.NoError(t, err)

	err = store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.MarkTransfer(ctx, transfer.ID, domain.TransferPending, domain.TransferCompleted)
	})
	require.NoError(t, err)

	err = store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.MarkTransfer(ctx, transfer.ID, domain.TransferPending, domain.TransferCancelled)
	})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	err = store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.MarkTransfer(ctx, uuid.NewString(), domain.TransferPending, domain.TransferCompleted)
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCloseOpenShifts_OnlyTouchesOpenOnes(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	userID := uuid.NewString()

	open := &domain.EmployeeShift{
		ID:          uuid.NewString(),
		UserID:      userID,
		StartTime:   time.Now().UTC().Add(-time.Hour),
		InitialCash: decimal.NewFromInt(100),
	}
	err := store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.InsertShift(ctx, open)
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	err = store.WithTx(ctx, func(tx repository.Tx) error {
		closed, err := tx.CloseOpenShifts(ctx, userID, now)
		if err != nil {
			return err
		}
		assert.Equal(t, 1, closed)
		// A second pass finds nothing left open.
		closed, err = tx.CloseOpenShifts(ctx, userID, now)
		assert.Equal(t, 0, closed)
		return err
	})
	require.NoError(t, err)
}
