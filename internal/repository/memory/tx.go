// internal/repository/memory/tx.go
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bodegapos/backend/internal/domain"
)

// memTx mutates the live dataset directly; Store.WithTx restores the
// snapshot when the callback returns an error.
type memTx struct {
	data *dataset
}

func (t *memTx) UpsertStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	key := stockKey(productID, branchID)
	row, ok := t.data.stocks[key]
	if !ok {
		row = domain.BranchStock{
			ID:        uuid.NewString(),
			ProductID: productID,
			BranchID:  branchID,
			Quantity:  decimal.Zero,
		}
	}
	row.Quantity = row.Quantity.Add(delta)
	row.UpdatedAt = time.Now().UTC()
	t.data.stocks[key] = row
	return row.Quantity, nil
}

func (t *memTx) UpdateStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	key := stockKey(productID, branchID)
	row, ok := t.data.stocks[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("product %s not stocked at branch %s: %w", productID, branchID, domain.ErrNotFound)
	}
	row.Quantity = row.Quantity.Add(delta)
	row.UpdatedAt = time.Now().UTC()
	t.data.stocks[key] = row
	return row.Quantity, nil
}

func (t *memTx) SetStockQuantity(ctx context.Context, productID, branchID string, qty decimal.Decimal) (*domain.BranchStock, error) {
	key := stockKey(productID, branchID)
	row, ok := t.data.stocks[key]
	if !ok {
		row = domain.BranchStock{
			ID:        uuid.NewString(),
			ProductID: productID,
			BranchID:  branchID,
		}
	}
	row.Quantity = qty
	row.UpdatedAt = time.Now().UTC()
	t.data.stocks[key] = row
	return &row, nil
}

func (t *memTx) InsertAdjustment(ctx context.Context, adj *domain.InventoryAdjustment) error {
	t.data.adjustments = append(t.data.adjustments, *adj)
	return nil
}

func (t *memTx) InsertSale(ctx context.Context, sale *domain.SaleHeader) error {
	stored := *sale
	stored.Details = append([]domain.SaleDetail(nil), sale.Details...)
	t.data.sales[sale.ID] = stored
	return nil
}

func (t *memTx) InsertTransfer(ctx context.Context, transfer *domain.StockTransfer) error {
	stored := *transfer
	stored.Details = append([]domain.TransferDetail(nil), transfer.Details...)
	t.data.transfers[transfer.ID] = stored
	return nil
}

func (t *memTx) MarkTransfer(ctx context.Context, transferID, from, to string) error {
	transfer, ok := t.data.transfers[transferID]
	if !ok {
		return fmt.Errorf("transfer %s: %w", transferID, domain.ErrNotFound)
	}
	if transfer.Status != from {
		return fmt.Errorf("transfer %s is not %s: %w", transferID, from, domain.ErrInvalidState)
	}
	transfer.Status = to
	t.data.transfers[transferID] = transfer
	return nil
}

func (t *memTx) AddCustomerBalance(ctx context.Context, customerID string, delta decimal.Decimal) error {
	customer, ok := t.data.customers[customerID]
	if !ok {
		return fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}
	customer.CurrentBalance = customer.CurrentBalance.Add(delta)
	t.data.customers[customerID] = customer
	return nil
}

func (t *memTx) InsertCreditPayment(ctx context.Context, payment *domain.CreditPayment) error {
	t.data.payments = append(t.data.payments, *payment)
	return nil
}

func (t *memTx) CloseOpenShifts(ctx context.Context, userID string, at time.Time) (int, error) {
	closed := 0
	for id, shift := range t.data.shifts {
		if shift.UserID == userID && shift.EndTime == nil {
			end := at
			shift.EndTime = &end
			t.data.shifts[id] = shift
			closed++
		}
	}
	return closed, nil
}

func (t *memTx) InsertShift(ctx context.Context, shift *domain.EmployeeShift) error {
	t.data.shifts[shift.ID] = *shift
	return nil
}

func (t *memTx) FinalizeShift(ctx context.Context, shiftID string, at time.Time, expected, actual, difference decimal.Decimal) error {
	shift, ok := t.data.shifts[shiftID]
	if !ok {
		return fmt.Errorf("shift %s: %w", shiftID, domain.ErrNotFound)
	}
	end := at
	shift.EndTime = &end
	shift.FinalCashExpected = decimal.NewNullDecimal(expected)
	shift.FinalCashActual = decimal.NewNullDecimal(actual)
	shift.Difference = decimal.NewNullDecimal(difference)
	t.data.shifts[shiftID] = shift
	return nil
}

func (t *memTx) InsertCashMovement(ctx context.Context, movement *domain.CashMovement) error {
	t.data.movements = append(t.data.movements, *movement)
	return nil
}

func (t *memTx) InsertExpense(ctx context.Context, expense *domain.Expense) error {
	t.data.expenses = append(t.data.expenses, *expense)
	return nil
}
