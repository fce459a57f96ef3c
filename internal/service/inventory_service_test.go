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

func TestAdjust_MissingRowStartsFromZero(t *testing.T) {
	store := memory.New()
	inventory := service.NewInventoryService(store, nil)

	branchID := uuid.NewString()
	productID := uuid.NewString()
	userID := uuid.NewString()

	adj, err := inventory.Adjust(context.Background(), domain.AdjustStockRequest{
		BranchID:  branchID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(-3),
		Reason:    "merma",
		UserID:    userID,
	})
	require.NoError(t, err)

	// The adjustment record keeps the raw signed delta, not the result.
	assert.True(t, adj.Quantity.Equal(decimal.NewFromInt(-3)))

	qty, err := store.GetStock(context.Background(), productID, branchID)
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(-3)),
		"an unstocked product adjusts from an implicit zero, got %s", qty)
}

func TestAdjust_AccumulatesDeltas(t *testing.T) {
	store := memory.New()
	inventory := service.NewInventoryService(store, nil)

	branchID := uuid.NewString()
	productID := uuid.NewString()
	userID := uuid.NewString()

	for _, delta := range []int64{10, -4, 2} {
		_, err := inventory.Adjust(context.Background(), domain.AdjustStockRequest{
			BranchID:  branchID,
			ProductID: productID,
			Quantity:  decimal.NewFromInt(delta),
			Reason:    "conteo",
			UserID:    userID,
		})
		require.NoError(t, err)
	}

	qty, err := store.GetStock(context.Background(), productID, branchID)
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(8)))

	history, err := inventory.History(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestAdjust_ZeroDeltaRejected(t *testing.T) {
	store := memory.New()
	inventory := service.NewInventoryService(store, nil)

	_, err := inventory.Adjust(context.Background(), domain.AdjustStockRequest{
		BranchID:  uuid.NewString(),
		ProductID: uuid.NewString(),
		Quantity:  decimal.Zero,
		UserID:    uuid.NewString(),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetStock_OverwritesAbsoluteQuantity(t *testing.T) {
	store := memory.New()
	inventory := service.NewInventoryService(store, nil)

	branchID := uuid.NewString()
	productID := uuid.NewString()

	for _, target := range []int64{15, 7} {
		row, err := inventory.SetStock(context.Background(), domain.SetStockRequest{
			BranchID:  branchID,
			ProductID: productID,
			Quantity:  decimal.NewFromInt(target),
		})
		require.NoError(t, err)
		assert.True(t, row.Quantity.Equal(decimal.NewFromInt(target)))
	}

	qty, err := store.GetStock(context.Background(), productID, branchID)
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(7)))
}

func TestBranchInventory_ListsOnlyThatBranch(t *testing.T) {
	store := memory.New()
	inventory := service.NewInventoryService(store, nil)

	branchA := uuid.NewString()
	branchB := uuid.NewString()

	for i, branchID := range []string{branchA, branchA, branchB} {
		_, err := inventory.SetStock(context.Background(), domain.SetStockRequest{
			BranchID:  branchID,
			ProductID: uuid.NewString(),
			Quantity:  decimal.NewFromInt(int64(i + 1)),
		})
		require.NoError(t, err)
	}

	rows, err := inventory.BranchInventory(context.Background(), branchA)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, branchA, row.BranchID)
	}
}
