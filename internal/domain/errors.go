package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error handling.
var (
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrOrderNotCancellable = errors.New("order_not_cancellable")
	ErrSideMismatch        = errors.New("side_mismatch")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrUnknownSide         = errors.New("unknown_side")
	ErrDuplicateOrder      = errors.New("duplicate_order")
	ErrOrderNotNew         = errors.New("order_not_new")
)

// TerminalOrderError reports a cancel attempt on an order that already
// reached FILLED or CANCELLED. It matches ErrOrderNotCancellable.
type TerminalOrderError struct {
	OrderID uint64
	Status  Status
}

func (e *TerminalOrderError) Error() string {
	return fmt.Sprintf("order %d already %s", e.OrderID, e.Status)
}

func (e *TerminalOrderError) Is(target error) bool {
	return target == ErrOrderNotCancellable
}

// ValidationError represents an input validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
