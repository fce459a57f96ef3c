// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bodegapos/backend/internal/domain"
)

// Store is the ledger store behind the engines. Mutations happen through
// WithTx: the callback either commits as a whole or leaves no trace. The
// read methods run outside any transaction.
type Store interface {
	// WithTx executes fn inside a single atomic transaction.
	WithTx(ctx context.Context, fn func(Tx) error) error

	GetStock(ctx context.Context, productID, branchID string) (decimal.Decimal, error)
	ListBranchInventory(ctx context.Context, branchID string) ([]domain.BranchStock, error)
	ListAdjustments(ctx context.Context, limit int) ([]domain.InventoryAdjustment, error)

	GetSale(ctx context.Context, id string) (*domain.SaleHeader, error)
	ListSales(ctx context.Context) ([]domain.SaleHeader, error)

	GetTransfer(ctx context.Context, id string) (*domain.StockTransfer, error)
	ListTransfers(ctx context.Context) ([]domain.StockTransfer, error)

	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, branchID string) ([]domain.Customer, error)

	GetShift(ctx context.Context, id string) (*domain.EmployeeShift, error)
	ListShifts(ctx context.Context) ([]domain.EmployeeShift, error)

	// SumCashSales totals COMPLETED cash sales by one user inside a time
	// window. SumCashMovements totals the user's cash movements with sign
	// (+IN, -OUT) in the same window. Both feed shift reconciliation,
	// which is keyed by user and time, not by shift linkage.
	SumCashSales(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)
	SumCashMovements(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)

	ListCashMovements(ctx context.Context, branchID string) ([]domain.CashMovement, error)
	ListExpenses(ctx context.Context, branchID string) ([]domain.Expense, error)

	InsertSystemLog(ctx context.Context, entry *domain.SystemLog) error
	ListSystemLogs(ctx context.Context, limit int) ([]domain.SystemLog, error)
}

// Tx is the write surface available inside a transaction. Stock deltas are
// applied as single atomic increments at the storage layer so that two
// concurrent adjustments on the same row can never both read the
// pre-adjustment quantity and overwrite each other.
type Tx interface {
	// UpsertStockDelta adds delta to the (product, branch) stock row,
	// creating the row (missing row reads as zero) when absent. Returns
	// the resulting quantity.
	UpsertStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error)

	// UpdateStockDelta adds delta to an existing stock row and returns the
	// resulting quantity, or domain.ErrNotFound when the product was never
	// stocked at the branch.
	UpdateStockDelta(ctx context.Context, productID, branchID string, delta decimal.Decimal) (decimal.Decimal, error)

	// SetStockQuantity sets the row to an absolute quantity (upsert).
	SetStockQuantity(ctx context.Context, productID, branchID string, qty decimal.Decimal) (*domain.BranchStock, error)

	InsertAdjustment(ctx context.Context, adj *domain.InventoryAdjustment) error

	// InsertSale writes the header and its details as one unit.
	InsertSale(ctx context.Context, sale *domain.SaleHeader) error

	InsertTransfer(ctx context.Context, transfer *domain.StockTransfer) error

	// MarkTransfer transitions a transfer from one status to another.
	// Returns domain.ErrInvalidState when the transfer is not currently in
	// the from status, domain.ErrNotFound when it does not exist.
	MarkTransfer(ctx context.Context, transferID, from, to string) error

	// AddCustomerBalance adds delta (signed) to the customer's debt.
	AddCustomerBalance(ctx context.Context, customerID string, delta decimal.Decimal) error

	InsertCreditPayment(ctx context.Context, payment *domain.CreditPayment) error

	// CloseOpenShifts sets end_time on every open shift of the user and
	// returns how many were closed. Reconciliation fields are left null.
	CloseOpenShifts(ctx context.Context, userID string, at time.Time) (int, error)

	InsertShift(ctx context.Context, shift *domain.EmployeeShift) error

	// FinalizeShift stamps the close-out fields in one write.
	FinalizeShift(ctx context.Context, shiftID string, at time.Time, expected, actual, difference decimal.Decimal) error

	InsertCashMovement(ctx context.Context, movement *domain.CashMovement) error
	InsertExpense(ctx context.Context, expense *domain.Expense) error
}
