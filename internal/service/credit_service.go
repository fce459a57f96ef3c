// internal/service/credit_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// CreditService tracks customer debt. Balances are only ever increased by
// credit checkouts and decreased here; both always travel with the record
// of the originating event in the same transaction.
type CreditService struct {
	store repository.Store
}

func NewCreditService(store repository.Store) *CreditService {
	return &CreditService{store: store}
}

// RecordPayment creates the payment row and decrements the customer's
// balance atomically. Overpayment is allowed and drives the balance
// negative; a negative balance is store credit.
func (s *CreditService) RecordPayment(ctx context.Context, req domain.PaymentRequest) (*domain.CreditPayment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payment := &domain.CreditPayment{
		ID:            uuid.NewString(),
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Date:          time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.InsertCreditPayment(ctx, payment); err != nil {
			return err
		}
		return tx.AddCustomerBalance(ctx, req.CustomerID, req.Amount.Neg())
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *CreditService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *CreditService) ListCustomers(ctx context.Context, branchID string) ([]domain.Customer, error) {
	return s.store.ListCustomers(ctx, branchID)
}
