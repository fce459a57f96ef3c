// internal/repository/postgres/tx.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bodegapos/backend/internal/domain"
)

// storeTx implements repository.Tx. Every stock delta is a single SQL
// increment so concurrent writers serialize on the row instead of racing a
// read-then-write in the application layer.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) UpsertStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		INSERT INTO branch_stock (id, product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, branch_id) DO UPDATE
		SET quantity = branch_stock.quantity + EXCLUDED.quantity,
		    updated_at = NOW()
		RETURNING quantity
	`
	var qty decimal.Decimal
	err := t.tx.QueryRowContext(ctx, query, uuid.NewString(), productID, branchID, delta).Scan(&qty)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to upsert stock: %w", err)
	}
	return qty, nil
}

func (t *storeTx) UpdateStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE branch_stock
		SET quantity = quantity + $3, updated_at = NOW()
		WHERE product_id = $1 AND branch_id = $2
		RETURNING quantity
	`
	var qty decimal.Decimal
	err := t.tx.QueryRowContext(ctx, query, productID, branchID, delta).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("product %s not stocked at branch %s: %w", productID, branchID, domain.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update stock: %w", err)
	}
	return qty, nil
}

func (t *storeTx) SetStockQuantity(ctx context.Context, productID, branchID string, qty decimal.Decimal) (*domain.BranchStock, error) {
	query := `
		INSERT INTO branch_stock (id, product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, branch_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, product_id, branch_id, quantity, updated_at
	`
	var row domain.BranchStock
	err := t.tx.QueryRowContext(ctx, query, uuid.NewString(), productID, branchID, qty).
		Scan(&row.ID, &row.ProductID, &row.BranchID, &row.Quantity, &row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}
	return &row, nil
}

func (t *storeTx) InsertAdjustment(ctx context.Context, adj *domain.InventoryAdjustment) error {
	query := `
		INSERT INTO inventory_adjustments (id, product_id, branch_id, user_id, quantity, reason, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.ExecContext(ctx, query,
		adj.ID, adj.ProductID, adj.BranchID, adj.UserID, adj.Quantity, adj.Reason, adj.Date)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment: %w", err)
	}
	return nil
}

func (t *storeTx) InsertSale(ctx context.Context, sale *domain.SaleHeader) error {
	query := `
		INSERT INTO sale_headers (id, branch_id, user_id, shift_id, customer_id, total, payment_method, status, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := t.tx.ExecContext(ctx, query,
		sale.ID, sale.BranchID, sale.UserID, sale.ShiftID, sale.CustomerID,
		sale.Total, sale.PaymentMethod, sale.Status, sale.Date)
	if err != nil {
		return fmt.Errorf("failed to insert sale header: %w", err)
	}

	detailQuery := `
		INSERT INTO sale_details (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	stmt, err := t.tx.PrepareContext(ctx, detailQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare sale detail statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range sale.Details {
		if _, err := stmt.ExecContext(ctx, d.ID, d.SaleID, d.ProductID, d.Quantity, d.UnitPrice, d.Subtotal); err != nil {
			return fmt.Errorf("failed to insert sale detail: %w", err)
		}
	}
	return nil
}

func (t *storeTx) InsertTransfer(ctx context.Context, transfer *domain.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (id, source_branch_id, dest_branch_id, status, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.ExecContext(ctx, query,
		transfer.ID, transfer.SourceBranchID, transfer.DestBranchID, transfer.Status, transfer.Date)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	detailQuery := `
		INSERT INTO transfer_details (id, transfer_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := t.tx.PrepareContext(ctx, detailQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare transfer detail statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range transfer.Details {
		if _, err := stmt.ExecContext(ctx, d.ID, d.TransferID, d.ProductID, d.Quantity); err != nil {
			return fmt.Errorf("failed to insert transfer detail: %w", err)
		}
	}
	return nil
}

func (t *storeTx) MarkTransfer(ctx context.Context, transferID, from, to string) error {
	// Guard the transition in SQL so a concurrent complete/cancel on the
	// same transfer cannot both pass the status check.
	query := `UPDATE stock_transfers SET status = $3 WHERE id = $1 AND status = $2`
	res, err := t.tx.ExecContext(ctx, query, transferID, from, to)
	if err != nil {
		return fmt.Errorf("failed to mark transfer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transfer update: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := t.tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM stock_transfers WHERE id = $1)`, transferID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check transfer existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("transfer %s: %w", transferID, domain.ErrNotFound)
		}
		return fmt.Errorf("transfer %s is not %s: %w", transferID, from, domain.ErrInvalidState)
	}
	return nil
}

func (t *storeTx) AddCustomerBalance(ctx context.Context, customerID string, delta decimal.Decimal) error {
	query := `UPDATE customers SET current_balance = current_balance + $2 WHERE id = $1`
	res, err := t.tx.ExecContext(ctx, query, customerID, delta)
	if err != nil {
		return fmt.Errorf("failed to update customer balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}
	return nil
}

func (t *storeTx) InsertCreditPayment(ctx context.Context, payment *domain.CreditPayment) error {
	query := `
		INSERT INTO credit_payments (id, customer_id, amount, payment_method, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.ExecContext(ctx, query,
		payment.ID, payment.CustomerID, payment.Amount, payment.PaymentMethod, payment.Date)
	if err != nil {
		return fmt.Errorf("failed to insert credit payment: %w", err)
	}
	return nil
}

func (t *storeTx) CloseOpenShifts(ctx context.Context, userID string, at time.Time) (int, error) {
	// Reconciliation fields are intentionally left null for force-closed
	// shifts; only end_time is stamped.
	query := `UPDATE employee_shifts SET end_time = $2 WHERE user_id = $1 AND end_time IS NULL`
	res, err := t.tx.ExecContext(ctx, query, userID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to close open shifts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check closed shifts: %w", err)
	}
	return int(affected), nil
}

func (t *storeTx) InsertShift(ctx context.Context, shift *domain.EmployeeShift) error {
	query := `
		INSERT INTO employee_shifts (id, user_id, branch_id, start_time, initial_cash)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.ExecContext(ctx, query,
		shift.ID, shift.UserID, shift.BranchID, shift.StartTime, shift.InitialCash)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

func (t *storeTx) FinalizeShift(ctx context.Context, shiftID string, at time.Time, expected, actual, difference decimal.Decimal) error {
	query := `
		UPDATE employee_shifts
		SET end_time = $2, final_cash_expected = $3, final_cash_actual = $4, difference = $5
		WHERE id = $1
	`
	res, err := t.tx.ExecContext(ctx, query, shiftID, at, expected, actual, difference)
	if err != nil {
		return fmt.Errorf("failed to finalize shift: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check shift update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shift %s: %w", shiftID, domain.ErrNotFound)
	}
	return nil
}

func (t *storeTx) InsertCashMovement(ctx context.Context, movement *domain.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, type, amount, reason, user_id, branch_id, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.ExecContext(ctx, query,
		movement.ID, movement.Type, movement.Amount, movement.Reason,
		movement.UserID, movement.BranchID, movement.Date)
	if err != nil {
		return fmt.Errorf("failed to insert cash movement: %w", err)
	}
	return nil
}

func (t *storeTx) InsertExpense(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, amount, description, category, branch_id, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := t.tx.ExecContext(ctx, query,
		expense.ID, expense.Amount, expense.Description, expense.Category, expense.BranchID, expense.Date)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}
