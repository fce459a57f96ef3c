// internal/repository/postgres/store.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// Store implements repository.Store on top of the connection pool.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Migrate applies the schema DDL.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Tx) error) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&storeTx{tx: tx})
	})
}

func (s *Store) GetStock(ctx context.Context, productID, branchID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	query := `SELECT quantity FROM branch_stock WHERE product_id = $1 AND branch_id = $2`
	err := s.db.QueryRowContext(ctx, query, productID, branchID).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing row reads as zero
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get stock: %w", err)
	}
	return qty, nil
}

func (s *Store) ListBranchInventory(ctx context.Context, branchID string) ([]domain.BranchStock, error) {
	query := `
		SELECT id, product_id, branch_id, quantity, updated_at
		FROM branch_stock
		WHERE branch_id = $1
		ORDER BY updated_at DESC
	`
	var rows []domain.BranchStock
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, branchID); err != nil {
		return nil, fmt.Errorf("failed to list branch inventory: %w", err)
	}
	return rows, nil
}

func (s *Store) ListAdjustments(ctx context.Context, limit int) ([]domain.InventoryAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, product_id, branch_id, user_id, quantity, reason, date
		FROM inventory_adjustments
		ORDER BY date DESC
		LIMIT $1
	`
	var rows []domain.InventoryAdjustment
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	return rows, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*domain.SaleHeader, error) {
	query := `
		SELECT id, branch_id, user_id, shift_id, customer_id, total, payment_method, status, date
		FROM sale_headers
		WHERE id = $1
	`
	var sale domain.SaleHeader
	err := sqlx.GetContext(ctx, s.db, &sale, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	detailQuery := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_details
		WHERE sale_id = $1
		ORDER BY id
	`
	if err := sqlx.SelectContext(ctx, s.db, &sale.Details, detailQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get sale details: %w", err)
	}
	return &sale, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.SaleHeader, error) {
	query := `
		SELECT id, branch_id, user_id, shift_id, customer_id, total, payment_method, status, date
		FROM sale_headers
		ORDER BY date DESC
		LIMIT 200
	`
	var sales []domain.SaleHeader
	if err := sqlx.SelectContext(ctx, s.db, &sales, query); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]string, 0, len(sales))
	index := make(map[string]int, len(sales))
	for i, sale := range sales {
		ids = append(ids, sale.ID)
		index[sale.ID] = i
	}

	detailQuery, args, err := sqlx.In(`
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_details
		WHERE sale_id IN (?)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build sale details query: %w", err)
	}
	detailQuery = s.db.Rebind(detailQuery)

	var details []domain.SaleDetail
	if err := sqlx.SelectContext(ctx, s.db, &details, detailQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to list sale details: %w", err)
	}
	for _, d := range details {
		i := index[d.SaleID]
		sales[i].Details = append(sales[i].Details, d)
	}
	return sales, nil
}

func (s *Store) GetTransfer(ctx context.Context, id string) (*domain.StockTransfer, error) {
	query := `
		SELECT id, source_branch_id, dest_branch_id, status, date
		FROM stock_transfers
		WHERE id = $1
	`
	var transfer domain.StockTransfer
	err := sqlx.GetContext(ctx, s.db, &transfer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}

	detailQuery := `
		SELECT id, transfer_id, product_id, quantity
		FROM transfer_details
		WHERE transfer_id = $1
		ORDER BY id
	`
	if err := sqlx.SelectContext(ctx, s.db, &transfer.Details, detailQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get transfer details: %w", err)
	}
	return &transfer, nil
}

func (s *Store) ListTransfers(ctx context.Context) ([]domain.StockTransfer, error) {
	query := `
		SELECT id, source_branch_id, dest_branch_id, status, date
		FROM stock_transfers
		ORDER BY date DESC
		LIMIT 200
	`
	var transfers []domain.StockTransfer
	if err := sqlx.SelectContext(ctx, s.db, &transfers, query); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, name, phone, email, address, credit_limit, current_balance, branch_id, created_at
		FROM customers
		WHERE id = $1
	`
	var customer domain.Customer
	err := sqlx.GetContext(ctx, s.db, &customer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (s *Store) ListCustomers(ctx context.Context, branchID string) ([]domain.Customer, error) {
	query := `
		SELECT id, name, phone, email, address, credit_limit, current_balance, branch_id, created_at
		FROM customers
		WHERE ($1 = '' OR branch_id::text = $1)
		ORDER BY name
	`
	var customers []domain.Customer
	if err := sqlx.SelectContext(ctx, s.db, &customers, query, branchID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *Store) GetShift(ctx context.Context, id string) (*domain.EmployeeShift, error) {
	query := `
		SELECT id, user_id, branch_id, start_time, end_time, initial_cash,
		       final_cash_expected, final_cash_actual, difference
		FROM employee_shifts
		WHERE id = $1
	`
	var shift domain.EmployeeShift
	err := sqlx.GetContext(ctx, s.db, &shift, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &shift, nil
}

func (s *Store) ListShifts(ctx context.Context) ([]domain.EmployeeShift, error) {
	query := `
		SELECT id, user_id, branch_id, start_time, end_time, initial_cash,
		       final_cash_expected, final_cash_actual, difference
		FROM employee_shifts
		ORDER BY start_time DESC
		LIMIT 200
	`
	var shifts []domain.EmployeeShift
	if err := sqlx.SelectContext(ctx, s.db, &shifts, query); err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (s *Store) SumCashSales(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM sale_headers
		WHERE user_id = $1
		  AND date >= $2 AND date <= $3
		  AND payment_method = $4
		  AND status = $5
	`
	var total decimal.Decimal
	err := s.db.QueryRowContext(ctx, query, userID, from, to, domain.PaymentCash, domain.SaleCompleted).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum cash sales: %w", err)
	}
	return total, nil
}

func (s *Store) SumCashMovements(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = $4 THEN amount ELSE -amount END), 0)
		FROM cash_movements
		WHERE user_id = $1
		  AND date >= $2 AND date <= $3
	`
	var total decimal.Decimal
	err := s.db.QueryRowContext(ctx, query, userID, from, to, domain.MovementIn).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum cash movements: %w", err)
	}
	return total, nil
}

func (s *Store) ListCashMovements(ctx context.Context, branchID string) ([]domain.CashMovement, error) {
	query := `
		SELECT id, type, amount, reason, user_id, branch_id, date
		FROM cash_movements
		WHERE ($1 = '' OR branch_id::text = $1)
		ORDER BY date DESC
		LIMIT 200
	`
	var movements []domain.CashMovement
	if err := sqlx.SelectContext(ctx, s.db, &movements, query, branchID); err != nil {
		return nil, fmt.Errorf("failed to list cash movements: %w", err)
	}
	return movements, nil
}

func (s *Store) ListExpenses(ctx context.Context, branchID string) ([]domain.Expense, error) {
	query := `
		SELECT id, amount, description, category, branch_id, date
		FROM expenses
		WHERE ($1 = '' OR branch_id::text = $1)
		ORDER BY date DESC
		LIMIT 200
	`
	var expenses []domain.Expense
	if err := sqlx.SelectContext(ctx, s.db, &expenses, query, branchID); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) InsertSystemLog(ctx context.Context, entry *domain.SystemLog) error {
	query := `
		INSERT INTO system_logs (id, user_id, action, details, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Action, entry.Details, entry.Date)
	if err != nil {
		return fmt.Errorf("failed to insert system log: %w", err)
	}
	return nil
}

func (s *Store) ListSystemLogs(ctx context.Context, limit int) ([]domain.SystemLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, user_id, action, details, date
		FROM system_logs
		ORDER BY date DESC
		LIMIT $1
	`
	var logs []domain.SystemLog
	if err := sqlx.SelectContext(ctx, s.db, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	return logs, nil
}
