package errors

import "fmt"

// ErrNotFound indicates a referenced resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates malformed or missing input.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUnauthorized indicates the actor lacks rights over the resource.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrInsufficientBalance indicates a withdrawal exceeds the shop's
// available balance.
type ErrInsufficientBalance struct {
	ShopID    string
	Requested float64
	Available float64
}

func (e *ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance for shop %s: requested %.2f, available %.2f",
		e.ShopID, e.Requested, e.Available)
}

// ErrInvalidStateTransition indicates a status change the transition
// table does not allow.
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
