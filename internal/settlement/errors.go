package settlement

import (
	"errors"
	"fmt"
)

var (
	ErrNegativePayment      = errors.New("amount paid must not be negative")
	ErrNegativeDebt         = errors.New("debt must not be negative")
	ErrAnonymousDebt        = errors.New("a customer must be selected to record the unpaid balance as debt")
	ErrInvalidPaymentMethod = errors.New("payment method must be cash, online, credit or split")
)

// NotFoundError reports a cart or customer reference that doesn't exist.
type NotFoundError struct {
	Kind string // "product" or "customer"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InsufficientStockError rejects a checkout that would drive stock
// below zero.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}
