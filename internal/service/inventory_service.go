// internal/service/inventory_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bodegapos/backend/internal/cache"
	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// InventoryService is the stock ledger surface: signed adjustments with an
// immutable record of each one, direct stock initialization, and the
// per-branch inventory listing served through the redis cache.
type InventoryService struct {
	store repository.Store
	cache *cache.InventoryCache
}

func NewInventoryService(store repository.Store, inventoryCache *cache.InventoryCache) *InventoryService {
	return &InventoryService{store: store, cache: inventoryCache}
}

// Adjust applies a signed delta to the (product, branch) pair, treating a
// missing row as quantity zero, and records the raw delta with reason and
// actor. The two writes commit or roll back together.
func (s *InventoryService) Adjust(ctx context.Context, req domain.AdjustStockRequest) (*domain.InventoryAdjustment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	adjustment := &domain.InventoryAdjustment{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		BranchID:  req.BranchID,
		UserID:    req.UserID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Date:      time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.InsertAdjustment(ctx, adjustment); err != nil {
			return err
		}
		_, err := tx.UpsertStockDelta(ctx, req.ProductID, req.BranchID, req.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, req.BranchID)
	return adjustment, nil
}

// SetStock sets an absolute quantity, used for initialization.
func (s *InventoryService) SetStock(ctx context.Context, req domain.SetStockRequest) (*domain.BranchStock, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var row *domain.BranchStock
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		row, err = tx.SetStockQuantity(ctx, req.ProductID, req.BranchID, req.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, req.BranchID)
	return row, nil
}

func (s *InventoryService) BranchInventory(ctx context.Context, branchID string) ([]domain.BranchStock, error) {
	if rows, ok := s.cache.Get(ctx, branchID); ok {
		return rows, nil
	}
	rows, err := s.store.ListBranchInventory(ctx, branchID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, branchID, rows)
	return rows, nil
}

func (s *InventoryService) History(ctx context.Context, limit int) ([]domain.InventoryAdjustment, error) {
	return s.store.ListAdjustments(ctx, limit)
}
