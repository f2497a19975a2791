package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidWorkbook signals a structurally broken monitoring workbook
	// (missing compulsory sheet, duplicate property names, unreadable file).
	// Fatal to loading that one subject, never to the batch.
	ErrInvalidWorkbook = errors.New("invalid monitoring workbook")

	// ErrUnknownProperty signals a property absent from a subject's table.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrInvalidTime signals a time label outside the canonical grid, or an
	// out-of-range premortem window size.
	ErrInvalidTime = errors.New("invalid time")

	// ErrInvalidPoolData signals a pool or group computation with zero
	// usable input (no resolvable members, no eligible times, no recognized
	// statistics, fewer than two selected groups).
	ErrInvalidPoolData = errors.New("invalid pool data")
)

// Error constructors with context

func NewInvalidWorkbookError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidWorkbook, reason)
}

func NewUnknownPropertyError(property string) error {
	return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
}

func NewInvalidTimeError(label string) error {
	return fmt.Errorf("%w: %q is not a registered time", ErrInvalidTime, label)
}

func NewInvalidWindowError(n, max int) error {
	return fmt.Errorf("%w: premortem window %d outside [1, %d]", ErrInvalidTime, n, max)
}

func NewInvalidPoolDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPoolData, reason)
}

// Error checking helpers

func IsInvalidWorkbook(err error) bool {
	return errors.Is(err, ErrInvalidWorkbook)
}

func IsUnknownProperty(err error) bool {
	return errors.Is(err, ErrUnknownProperty)
}

func IsInvalidTime(err error) bool {
	return errors.Is(err, ErrInvalidTime)
}

func IsInvalidPoolData(err error) bool {
	return errors.Is(err, ErrInvalidPoolData)
}
