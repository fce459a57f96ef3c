// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout and for credit payments.
const (
	PaymentCash     = "CASH"
	PaymentTransfer = "TRANSFER"
	PaymentCredit   = "CREDIT"
)

// Sale statuses.
const (
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
)

// Transfer statuses. PENDING is the only non-terminal state.
const (
	TransferPending   = "PENDING"
	TransferCompleted = "COMPLETED"
	TransferCancelled = "CANCELLED"
)

// Cash movement directions.
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// Branch represents a physical retail location, the unit of stock partitioning
type Branch struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product is a catalog entry. Products are never hard-deleted, only deactivated.
type Product struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Code           *string         `json:"code" db:"code"`
	Cost           decimal.Decimal `json:"cost" db:"cost"`
	RetailPrice    decimal.Decimal `json:"retail_price" db:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price" db:"wholesale_price"`
	Unit           string          `json:"unit" db:"unit"`
	CategoryID     *string         `json:"category_id" db:"category_id"`
	ProviderID     *string         `json:"provider_id" db:"provider_id"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// BranchStock is the quantity of one product at one branch. The
// (product_id, branch_id) pair is unique; rows appear on the first stock
// movement for the pair and the quantity may go negative.
type BranchStock struct {
	ID        string          `json:"id" db:"id"`
	ProductID string          `json:"product_id" db:"product_id"`
	BranchID  string          `json:"branch_id" db:"branch_id"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Customer carries an accumulated debt balance. The balance is maintained
// purely by paired writes: credit sales increment it, payments decrement it.
type Customer struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Phone          *string         `json:"phone" db:"phone"`
	Email          *string         `json:"email" db:"email"`
	Address        *string         `json:"address" db:"address"`
	CreditLimit    decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance" db:"current_balance"`
	BranchID       *string         `json:"branch_id" db:"branch_id"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// SaleHeader is immutable after creation.
type SaleHeader struct {
	ID            string          `json:"id" db:"id"`
	BranchID      string          `json:"branch_id" db:"branch_id"`
	UserID        string          `json:"user_id" db:"user_id"`
	ShiftID       *string         `json:"shift_id" db:"shift_id"`
	CustomerID    *string         `json:"customer_id" db:"customer_id"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Status        string          `json:"status" db:"status"`
	Date          time.Time       `json:"date" db:"date"`
	Details       []SaleDetail    `json:"details" db:"-"`
}

type SaleDetail struct {
	ID        string          `json:"id" db:"id"`
	SaleID    string          `json:"sale_id" db:"sale_id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// StockTransfer moves stock between branches. Stock is debited from the
// source on creation and credited to the destination only on completion;
// cancellation returns the reserved quantity to the source.
type StockTransfer struct {
	ID             string           `json:"id" db:"id"`
	SourceBranchID string           `json:"source_branch_id" db:"source_branch_id"`
	DestBranchID   string           `json:"dest_branch_id" db:"dest_branch_id"`
	Status         string           `json:"status" db:"status"`
	Date           time.Time        `json:"date" db:"date"`
	Details        []TransferDetail `json:"details" db:"-"`
}

type TransferDetail struct {
	ID         string          `json:"id" db:"id"`
	TransferID string          `json:"transfer_id" db:"transfer_id"`
	ProductID  string          `json:"product_id" db:"product_id"`
	Quantity   decimal.Decimal `json:"quantity" db:"quantity"`
}

// EmployeeShift is a cashier work session. Reconciliation fields stay null
// while the shift is open, and also for shifts that were force-closed when
// the same user opened a new one.
type EmployeeShift struct {
	ID                string              `json:"id" db:"id"`
	UserID            string              `json:"user_id" db:"user_id"`
	BranchID          *string             `json:"branch_id" db:"branch_id"`
	StartTime         time.Time           `json:"start_time" db:"start_time"`
	EndTime           *time.Time          `json:"end_time" db:"end_time"`
	InitialCash       decimal.Decimal     `json:"initial_cash" db:"initial_cash"`
	FinalCashExpected decimal.NullDecimal `json:"final_cash_expected" db:"final_cash_expected"`
	FinalCashActual   decimal.NullDecimal `json:"final_cash_actual" db:"final_cash_actual"`
	Difference        decimal.NullDecimal `json:"difference" db:"difference"`
}

// Open reports whether the shift has not been closed yet.
func (s EmployeeShift) Open() bool { return s.EndTime == nil }

// CashMovement is an immutable cash drawer event.
type CashMovement struct {
	ID       string          `json:"id" db:"id"`
	Type     string          `json:"type" db:"type"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Reason   string          `json:"reason" db:"reason"`
	UserID   string          `json:"user_id" db:"user_id"`
	BranchID string          `json:"branch_id" db:"branch_id"`
	Date     time.Time       `json:"date" db:"date"`
}

// SignedAmount returns +amount for IN movements and -amount for OUT.
func (m CashMovement) SignedAmount() decimal.Decimal {
	if m.Type == MovementOut {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Expense is an immutable branch expense with no shift linkage.
type Expense struct {
	ID          string          `json:"id" db:"id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	BranchID    string          `json:"branch_id" db:"branch_id"`
	Date        time.Time       `json:"date" db:"date"`
}

// CreditPayment records a customer paying down debt. It is always created
// in the same transaction as the matching balance decrement.
type CreditPayment struct {
	ID            string          `json:"id" db:"id"`
	CustomerID    string          `json:"customer_id" db:"customer_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Date          time.Time       `json:"date" db:"date"`
}

// InventoryAdjustment is the immutable record of a manual stock change.
// It stores the raw signed delta, not the resulting total.
type InventoryAdjustment struct {
	ID        string          `json:"id" db:"id"`
	ProductID string          `json:"product_id" db:"product_id"`
	BranchID  string          `json:"branch_id" db:"branch_id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	Reason    string          `json:"reason" db:"reason"`
	Date      time.Time       `json:"date" db:"date"`
}

// SystemLog is an append-only audit entry. Writing it is best-effort and
// never blocks or fails the operation being audited.
type SystemLog struct {
	ID      string    `json:"id" db:"id"`
	UserID  *string   `json:"user_id" db:"user_id"`
	Action  string    `json:"action" db:"action"`
	Details string    `json:"details" db:"details"`
	Date    time.Time `json:"date" db:"date"`
}

// User is reference data owned by the external auth collaborator; the core
// only reads it for joins and seeding.
type User struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Username string  `json:"username" db:"username"`
	Role     string  `json:"role" db:"role"`
	BranchID *string `json:"branch_id" db:"branch_id"`
}
