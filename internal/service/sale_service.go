// internal/service/sale_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bodegapos/backend/internal/audit"
	"github.com/bodegapos/backend/internal/cache"
	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// SaleService commits checkouts. A checkout writes the sale header and
// details, decrements stock per line, and for credit sales increments the
// customer's balance, all inside one transaction. The caller-supplied total
// is trusted as-is; the engine does not recompute it from the line items.
type SaleService struct {
	store repository.Store
	cache *cache.InventoryCache
	audit *audit.Logger

	// allowNegativeStock selects the permissive policy: checkout never
	// blocks on availability and stock may go negative. Disabling it
	// adds a floor check inside the transaction.
	allowNegativeStock bool
}

func NewSaleService(store repository.Store, inventoryCache *cache.InventoryCache, auditLog *audit.Logger, allowNegativeStock bool) *SaleService {
	return &SaleService{
		store:              store,
		cache:              inventoryCache,
		audit:              auditLog,
		allowNegativeStock: allowNegativeStock,
	}
}

func (s *SaleService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.SaleHeader, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sale := &domain.SaleHeader{
		ID:            uuid.NewString(),
		BranchID:      req.BranchID,
		UserID:        req.UserID,
		ShiftID:       req.ShiftID,
		CustomerID:    req.CustomerID,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.SaleCompleted,
		Date:          time.Now().UTC(),
	}
	for _, line := range req.Details {
		sale.Details = append(sale.Details, domain.SaleDetail{
			ID:        uuid.NewString(),
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.InsertSale(ctx, sale); err != nil {
			return err
		}

		for _, line := range req.Details {
			// A sale against a product never stocked at this branch
			// fails the whole transaction.
			remaining, err := tx.UpdateStockDelta(ctx, line.ProductID, req.BranchID, line.Quantity.Neg())
			if err != nil {
				return err
			}
			if !s.allowNegativeStock && remaining.IsNegative() {
				return fmt.Errorf("product %s at branch %s: %w", line.ProductID, req.BranchID, domain.ErrInsufficientStock)
			}
		}

		if req.PaymentMethod == domain.PaymentCredit {
			if err := tx.AddCustomerBalance(ctx, *req.CustomerID, req.Total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, req.BranchID)
	s.audit.Record(req.UserID, audit.ActionSaleCompleted,
		fmt.Sprintf("Venta con éxito por un total de $%s - ID: %s", req.Total.String(), sale.ID))

	return sale, nil
}

func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.SaleHeader, error) {
	return s.store.GetSale(ctx, id)
}

func (s *SaleService) ListSales(ctx context.Context) ([]domain.SaleHeader, error) {
	return s.store.ListSales(ctx)
}
