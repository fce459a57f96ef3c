// internal/service/transfer_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bodegapos/backend/internal/cache"
	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// TransferService runs the two-phase transfer state machine:
// PENDING -> COMPLETED or PENDING -> CANCELLED, both terminal. Creation
// reserves stock by debiting the source immediately; completion credits the
// destination; cancellation compensates the reservation. Between creation
// and a terminal transition the reserved quantity is in transit: debited
// from the source, not yet credited anywhere.
type TransferService struct {
	store repository.Store
	cache *cache.InventoryCache
}

func NewTransferService(store repository.Store, inventoryCache *cache.InventoryCache) *TransferService {
	return &TransferService{store: store, cache: inventoryCache}
}

func (s *TransferService) Create(ctx context.Context, req domain.TransferRequest) (*domain.StockTransfer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	transfer := &domain.StockTransfer{
		ID:             uuid.NewString(),
		SourceBranchID: req.SourceBranchID,
		DestBranchID:   req.DestBranchID,
		Status:         domain.TransferPending,
		Date:           time.Now().UTC(),
	}
	for _, line := range req.Details {
		transfer.Details = append(transfer.Details, domain.TransferDetail{
			ID:         uuid.NewString(),
			TransferID: transfer.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
		})
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.InsertTransfer(ctx, transfer); err != nil {
			return err
		}
		for _, line := range req.Details {
			// Reservation phase: the source row must already exist.
			if _, err := tx.UpdateStockDelta(ctx, line.ProductID, req.SourceBranchID, line.Quantity.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, req.SourceBranchID)
	return transfer, nil
}

func (s *TransferService) Complete(ctx context.Context, transferID string) error {
	transfer, err := s.store.GetTransfer(ctx, transferID)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		// The status guard re-runs inside the transaction so two racing
		// terminal transitions cannot both apply their stock writes.
		if err := tx.MarkTransfer(ctx, transferID, domain.TransferPending, domain.TransferCompleted); err != nil {
			return err
		}
		for _, line := range transfer.Details {
			// Destination may never have stocked this product before.
			if _, err := tx.UpsertStockDelta(ctx, line.ProductID, transfer.DestBranchID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, transfer.DestBranchID)
	return nil
}

func (s *TransferService) Cancel(ctx context.Context, transferID string) error {
	transfer, err := s.store.GetTransfer(ctx, transferID)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.MarkTransfer(ctx, transferID, domain.TransferPending, domain.TransferCancelled); err != nil {
			return err
		}
		for _, line := range transfer.Details {
			// Compensate the reservation made at creation.
			if _, err := tx.UpdateStockDelta(ctx, line.ProductID, transfer.SourceBranchID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, transfer.SourceBranchID)
	return nil
}

func (s *TransferService) Get(ctx context.Context, id string) (*domain.StockTransfer, error) {
	return s.store.GetTransfer(ctx, id)
}

func (s *TransferService) List(ctx context.Context) ([]domain.StockTransfer, error) {
	return s.store.ListTransfers(ctx)
}
