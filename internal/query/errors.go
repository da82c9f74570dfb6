package query

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a score input is outside its domain.
	//
	// ComputeRICE returns an *InvalidInputError that wraps ErrInvalidInput.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedQuery is returned when a spec is structurally invalid and the
	// caller asked for strict handling.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrInvalidPage is returned when Page is called with a negative offset or limit.
	ErrInvalidPage = errors.New("offset and limit must be non-negative")

	// ErrOffsetOutOfBounds is returned when Page is called with an offset
	// beyond the number of results.
	ErrOffsetOutOfBounds = errors.New("offset out of bounds")
)

// InvalidInputError describes a score input outside its domain.
//
// Use errors.Is(err, ErrInvalidInput) to match this error.
type InvalidInputError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s=%d", ErrInvalidInput.Error(), e.Field, e.Value)
	}

	return fmt.Sprintf("%s: %s=%d: %s", ErrInvalidInput.Error(), e.Field, e.Value, e.Reason)
}

func (*InvalidInputError) Unwrap() error { return ErrInvalidInput }

// MalformedQueryError describes a structurally invalid query parameter.
//
// Use errors.Is(err, ErrMalformedQuery) to match this error.
type MalformedQueryError struct {
	Param  string
	Value  string
	Reason string
}

func (e *MalformedQueryError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s=%q", ErrMalformedQuery.Error(), e.Param, e.Value)
	}

	return fmt.Sprintf("%s: %s=%q: %s", ErrMalformedQuery.Error(), e.Param, e.Value, e.Reason)
}

func (*MalformedQueryError) Unwrap() error { return ErrMalformedQuery }
