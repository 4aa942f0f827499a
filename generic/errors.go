/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engine itself never returns errors for control flow (a missing date
  contributes nothing, an ineligible employee yields no report); these
  errors are raised at the edges: stores, the service and the HTTP layer.

ERROR CATEGORIES:
  1. Lookup errors - Missing employees, requests, holidays
  2. Validation errors - Malformed dates, periods, policies
  3. Balance errors - A request that does not fit the remaining days

USAGE:
  if errors.Is(err, generic.ErrEntityNotFound) {
      // 404
  }

SEE ALSO:
  - balance.go: Produces InsufficientBalanceError
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientBalance is returned when a request exceeds the remaining balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrEntityNotFound is returned when a referenced employee doesn't exist.
	ErrEntityNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced leave request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrHolidayNotFound is returned when a referenced holiday doesn't exist.
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrDuplicate is returned when a record with the same identity already exists.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidDate is returned when a date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPolicy is returned when policy parameters are unusable.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrNotEligible is returned when an employee's contract does not accrue leave.
	ErrNotEligible = errors.New("employee not eligible for leave accrual")

	// ErrInvalidTransition is returned when a request status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EntityID  EntityID
	PolicyID  PolicyID
	Available Amount
	Requested Amount
	Shortfall Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %v, requested %v, shortfall %v",
		e.Available.Value, e.Requested.Value, e.Shortfall.Value)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPolicy) ||
		errors.Is(err, ErrNotEligible) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}

// IsConflict returns true if the error clashes with stored state: a
// duplicate record or a status change the request no longer allows.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidTransition)
}
