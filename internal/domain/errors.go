// internal/domain/errors.go
package domain

import "errors"

var (
	// ErrValidation covers malformed or missing request fields. Nothing is
	// written before it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers a referenced entity (product at branch, transfer,
	// shift, customer) that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState covers operations against a terminal or wrong-state
	// entity, such as completing a non-pending transfer.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientStock is returned only when the negative-stock policy
	// is disabled and a decrement would drive a quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)
