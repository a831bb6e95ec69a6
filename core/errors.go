/*
errors.go - Centralized error types for the payslip engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Computation packages return these (or wrap them) so callers can branch
  with errors.Is / errors.As without importing every package.

ERROR CATEGORIES:
  1. Hard failures - returned as error, computation stops
     - ErrInvalidArgument: malformed date, month outside [1,12], negative counts
     - ErrDivisionByZero: zero working hours/day or zero working days
  2. Soft anomalies - attached to results as Warning, never returned as error
     - DataIntegrity, InconsistentConfiguration (see types.go)

USAGE:
    if errors.Is(err, core.ErrInvalidArgument) {
        // reject the request at the boundary
    }

SEE ALSO:
  - types.go: Warning
  - api/handlers.go: Maps these errors to HTTP statuses
*/
package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned for malformed or out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDivisionByZero is returned when a payroll divisor is zero or unset.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrSalaryConfigNotFound is returned when no salary configuration is on
	// file for an employee and month.
	ErrSalaryConfigNotFound = errors.New("salary configuration not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ArgumentError provides details about a rejected input value.
type ArgumentError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// ZeroDivisorError names the configuration field that would divide by zero.
type ZeroDivisorError struct {
	Field string
}

func (e *ZeroDivisorError) Error() string {
	return fmt.Sprintf("%s must be greater than zero", e.Field)
}

func (e *ZeroDivisorError) Unwrap() error {
	return ErrDivisionByZero
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrDivisionByZero)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrSalaryConfigNotFound)
}
