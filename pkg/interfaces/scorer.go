package interfaces

import (
	"context"
	"errors"
	"fmt"
)

// Scorer is a single scoring strategy. The deterministic risk-index engine, the
// fixed-rule heuristic and the learned classifier all implement it; the serving
// layer selects one by name.
type Scorer interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Variant reports which record schema the strategy accepts.
	Variant() Variant

	// Score evaluates one record. Only InvalidInput errors are expected here.
	Score(ctx context.Context, rec *Record) (*Assessment, error)
}

// Error taxonomy.
var (
	// ErrInvalidInput marks a record that violates the input contract. It is the
	// only error surfaced to clients.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelLoad is fatal at startup.
	ErrModelLoad = errors.New("model load failure")

	// ErrInference is recovered locally by falling back to the deterministic score.
	ErrInference = errors.New("inference failure")
)

// InputError names the offending field of a rejected record.
type InputError struct {
	Field  string
	Reason string
}

// Invalid builds an InputError for field.
func Invalid(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error { return ErrInvalidInput }
