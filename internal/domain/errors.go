package domain

import "fmt"

// ValidationError reports bad input or a violated business rule.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports an unknown id or reservation code.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError reports a state transition that is not allowed from the
// entity's current state.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// CapacityError is returned when a restaurant cannot seat a party. It is
// surfaced as a validation failure: errors.As(err, **ValidationError) matches.
type CapacityError struct {
	RestaurantID int64
	Requested    int
	Available    int
}

const msgNotEnoughCapacity = "Not enough capacity in the restaurant"

func (e *CapacityError) Error() string { return msgNotEnoughCapacity }

func (e *CapacityError) Detail() string {
	return fmt.Sprintf("restaurant %d: requested %d seats, %d available", e.RestaurantID, e.Requested, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return &ValidationError{Msg: msgNotEnoughCapacity}
}

func Invalid(msg string) error  { return &ValidationError{Msg: msg} }
func NotFound(msg string) error { return &NotFoundError{Msg: msg} }
func Conflict(msg string) error { return &ConflictError{Msg: msg} }
