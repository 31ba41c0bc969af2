// Package errors provides error handling for vspace.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints attached to configuration mistakes
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrDependencyCycle) {
//	    // handle cycle
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the namespace engine.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidRule indicates a rule string that violates the grammar,
	// e.g. the recursive keyword applied to a bare subspace reference.
	ErrInvalidRule = New("invalid rule")

	// ErrDependencyCycle indicates the subspace-reference graph is cyclic.
	// The update that detected it applied no mutations.
	ErrDependencyCycle = New("subspace dependency cycle")

	// ErrUnknownSubspace indicates a subspace reference naming a space that
	// has never been declared. Non-fatal: the reference is skipped.
	ErrUnknownSubspace = New("unknown subspace")
)

// IsInvalidRuleError checks if an error is or wraps ErrInvalidRule
func IsInvalidRuleError(err error) bool {
	return err != nil && Is(err, ErrInvalidRule)
}

// IsCycleError checks if an error is or wraps ErrDependencyCycle
func IsCycleError(err error) bool {
	return err != nil && Is(err, ErrDependencyCycle)
}

// NewInvalidRuleError creates an invalid-rule error with a formatted message
func NewInvalidRuleError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRule, Newf(format, args...).Error())
}
