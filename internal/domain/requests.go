// internal/domain/requests.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Request DTOs for the mutating endpoints. Each one validates itself before
// any transaction is opened, so malformed input never touches the store.

type CheckoutLine struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CheckoutRequest struct {
	BranchID      string          `json:"branchId"`
	UserID        string          `json:"userId"`
	ShiftID       *string         `json:"shiftId"`
	CustomerID    *string         `json:"customerId"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Details       []CheckoutLine  `json:"details"`
}

func (r CheckoutRequest) Validate() error {
	if r.BranchID == "" || r.UserID == "" {
		return fmt.Errorf("%w: branchId and userId are required", ErrValidation)
	}
	switch r.PaymentMethod {
	case PaymentCash, PaymentTransfer, PaymentCredit:
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, r.PaymentMethod)
	}
	if r.PaymentMethod == PaymentCredit && (r.CustomerID == nil || *r.CustomerID == "") {
		return fmt.Errorf("%w: credit sales require a customerId", ErrValidation)
	}
	if len(r.Details) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	for i, d := range r.Details {
		if d.ProductID == "" {
			return fmt.Errorf("%w: line %d is missing productId", ErrValidation, i)
		}
		if !d.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d quantity must be positive", ErrValidation, i)
		}
	}
	return nil
}

type TransferLine struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type TransferRequest struct {
	SourceBranchID string         `json:"sourceBranchId"`
	DestBranchID   string         `json:"destBranchId"`
	Details        []TransferLine `json:"details"`
}

func (r TransferRequest) Validate() error {
	if r.SourceBranchID == "" || r.DestBranchID == "" {
		return fmt.Errorf("%w: source and destination branches are required", ErrValidation)
	}
	if r.SourceBranchID == r.DestBranchID {
		return fmt.Errorf("%w: source and destination branches must differ", ErrValidation)
	}
	if len(r.Details) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	for i, d := range r.Details {
		if d.ProductID == "" {
			return fmt.Errorf("%w: line %d is missing productId", ErrValidation, i)
		}
		if !d.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d quantity must be positive", ErrValidation, i)
		}
	}
	return nil
}

type AdjustStockRequest struct {
	BranchID  string          `json:"branchId"`
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"` // signed delta
	Reason    string          `json:"reason"`
	UserID    string          `json:"userId"`
}

func (r AdjustStockRequest) Validate() error {
	if r.BranchID == "" || r.ProductID == "" || r.UserID == "" {
		return fmt.Errorf("%w: branchId, productId and userId are required", ErrValidation)
	}
	if r.Quantity.IsZero() {
		return fmt.Errorf("%w: quantity delta must be non-zero", ErrValidation)
	}
	return nil
}

type SetStockRequest struct {
	BranchID  string          `json:"branchId"`
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (r SetStockRequest) Validate() error {
	if r.BranchID == "" || r.ProductID == "" {
		return fmt.Errorf("%w: branchId and productId are required", ErrValidation)
	}
	return nil
}

type PaymentRequest struct {
	CustomerID    string          `json:"customerId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
}

func (r PaymentRequest) Validate() error {
	if r.CustomerID == "" {
		return fmt.Errorf("%w: customerId is required", ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	switch r.PaymentMethod {
	case PaymentCash, PaymentTransfer:
		return nil
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, r.PaymentMethod)
	}
}

type OpenShiftRequest struct {
	UserID      string          `json:"userId"`
	InitialCash decimal.Decimal `json:"initialCash"`
	BranchID    *string         `json:"branchId"`
}

func (r OpenShiftRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if r.InitialCash.IsNegative() {
		return fmt.Errorf("%w: initialCash cannot be negative", ErrValidation)
	}
	return nil
}

type CloseShiftRequest struct {
	FinalCashActual decimal.Decimal `json:"finalCashActual"`
}

type CashMovementRequest struct {
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	BranchID string          `json:"branchId"`
	UserID   string          `json:"userId"`
}

func (r CashMovementRequest) Validate() error {
	if r.Type != MovementIn && r.Type != MovementOut {
		return fmt.Errorf("%w: type must be IN or OUT", ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if r.BranchID == "" || r.UserID == "" {
		return fmt.Errorf("%w: branchId and userId are required", ErrValidation)
	}
	return nil
}

type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	BranchID    string          `json:"branchId"`
}

func (r ExpenseRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if r.BranchID == "" {
		return fmt.Errorf("%w: branchId is required", ErrValidation)
	}
	return nil
}
