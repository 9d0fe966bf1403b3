package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Simulation errors
	ErrGenerationFailure = errors.New("event generation retry cap exceeded")

	// Inference errors
	ErrDegeneratePosterior    = errors.New("posterior is zero everywhere on the grid")
	ErrNormalizationUnderflow = errors.New("combined posterior underflowed during normalization")
	ErrEmptyGrid              = errors.New("H0 grid is empty")
	ErrGridMismatch           = errors.New("posteriors computed on different H0 grids")

	// Population errors
	ErrEmptyPopulation    = errors.New("galaxy population has no hosting weight")
	ErrInvalidCompleteness = errors.New("completeness must be in [0,1]")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewGenerationError(attempts int) error {
	return fmt.Errorf("%w after %d attempts", ErrGenerationFailure, attempts)
}

// Error checking helpers
func IsGenerationFailure(err error) bool {
	return errors.Is(err, ErrGenerationFailure)
}

func IsDegeneratePosterior(err error) bool {
	return errors.Is(err, ErrDegeneratePosterior)
}

func IsNormalizationUnderflow(err error) bool {
	return errors.Is(err, ErrNormalizationUnderflow)
}
