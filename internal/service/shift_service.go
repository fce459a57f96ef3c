// internal/service/shift_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bodegapos/backend/internal/audit"
	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// ShiftService opens and reconciles cashier shifts, and records the cash
// movements and expenses that feed reconciliation.
//
// Close-out replays CASH sales and cash movements by the shift's user
// inside [startTime, now]. The window is keyed by user and time, not by the
// shift foreign key sales actually carry; a user whose shift windows
// overlap would have sales re-counted. Kept on purpose: shiftId on a sale
// is optional and close-out must still work when it is absent.
type ShiftService struct {
	store repository.Store
	audit *audit.Logger
}

func NewShiftService(store repository.Store, auditLog *audit.Logger) *ShiftService {
	return &ShiftService{store: store, audit: auditLog}
}

// OpenShift force-closes any open shift for the user (end time only, no
// reconciliation for the abandoned shift) and creates the new one, in one
// transaction.
func (s *ShiftService) OpenShift(ctx context.Context, req domain.OpenShiftRequest) (*domain.EmployeeShift, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	shift := &domain.EmployeeShift{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		BranchID:    req.BranchID,
		StartTime:   time.Now().UTC(),
		InitialCash: req.InitialCash,
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		closed, err := tx.CloseOpenShifts(ctx, req.UserID, shift.StartTime)
		if err != nil {
			return err
		}
		if closed > 0 {
			log.Warn().Str("user_id", req.UserID).Int("closed", closed).
				Msg("force-closed prior open shift without reconciliation")
		}
		return tx.InsertShift(ctx, shift)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(req.UserID, audit.ActionShiftOpened,
		fmt.Sprintf("Inicio jornada con fondo de $%s", req.InitialCash.String()))
	return shift, nil
}

// CloseShift reconstructs the expected cash-on-hand and records the
// variance against the physical count.
func (s *ShiftService) CloseShift(ctx context.Context, shiftID string, req domain.CloseShiftRequest) (*domain.EmployeeShift, error) {
	shift, err := s.store.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	cashSales, err := s.store.SumCashSales(ctx, shift.UserID, shift.StartTime, now)
	if err != nil {
		return nil, err
	}
	netMovements, err := s.store.SumCashMovements(ctx, shift.UserID, shift.StartTime, now)
	if err != nil {
		return nil, err
	}

	expected := shift.InitialCash.Add(cashSales).Add(netMovements)
	difference := req.FinalCashActual.Sub(expected)

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.FinalizeShift(ctx, shiftID, now, expected, req.FinalCashActual, difference)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(shift.UserID, audit.ActionShiftClosed,
		fmt.Sprintf("Fin jornada. Efectivo: $%s. Diferencia: $%s", req.FinalCashActual.String(), difference.String()))

	return s.store.GetShift(ctx, shiftID)
}

func (s *ShiftService) ListShifts(ctx context.Context) ([]domain.EmployeeShift, error) {
	return s.store.ListShifts(ctx)
}

func (s *ShiftService) CreateCashMovement(ctx context.Context, req domain.CashMovementRequest) (*domain.CashMovement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	movement := &domain.CashMovement{
		ID:       uuid.NewString(),
		Type:     req.Type,
		Amount:   req.Amount,
		Reason:   req.Reason,
		UserID:   req.UserID,
		BranchID: req.BranchID,
		Date:     time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.InsertCashMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(req.UserID, audit.ActionCashFlow,
		fmt.Sprintf("%s: $%s - %s", req.Type, req.Amount.String(), req.Reason))
	return movement, nil
}

func (s *ShiftService) ListCashMovements(ctx context.Context, branchID string) ([]domain.CashMovement, error) {
	return s.store.ListCashMovements(ctx, branchID)
}

func (s *ShiftService) CreateExpense(ctx context.Context, req domain.ExpenseRequest) (*domain.Expense, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:          uuid.NewString(),
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		BranchID:    req.BranchID,
		Date:        time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.InsertExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ShiftService) ListExpenses(ctx context.Context, branchID string) ([]domain.Expense, error) {
	return s.store.ListExpenses(ctx, branchID)
}
