package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Run-aborting errors
	ErrConfiguration = errors.New("invalid bootstrap configuration")
	ErrExtraction    = errors.New("mediation structure extraction failed")
	ErrConvergence   = errors.New("too many resamples failed to converge")
	ErrRandomness    = errors.New("random stream derivation failed")

	// Recoverable per-resample error: the iteration is excluded, not the run
	ErrRefitFailed = errors.New("model refit did not converge")

	// Ingestion errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrVariableNotFound = fmt.Errorf("%w: variable", ErrExtraction)
)

// Error constructors with context
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewExtractionError(variable string, model string) error {
	return fmt.Errorf("%w %q not found in %s model", ErrVariableNotFound, variable, model)
}

func NewConvergenceError(excluded, total int, threshold float64) error {
	return fmt.Errorf("%w: %d of %d resamples excluded (max exclusion rate %.3f)",
		ErrConvergence, excluded, total, threshold)
}

func NewRandomnessError(cause error) error {
	return fmt.Errorf("%w: %v", ErrRandomness, cause)
}

func NewRefitError(reason string) error {
	return fmt.Errorf("%w: %s", ErrRefitFailed, reason)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsExtractionError(err error) bool {
	return errors.Is(err, ErrExtraction)
}

func IsConvergenceError(err error) bool {
	return errors.Is(err, ErrConvergence)
}

func IsRandomnessError(err error) bool {
	return errors.Is(err, ErrRandomness)
}

// IsRecoverable reports whether a single resample may be dropped instead of
// aborting the whole run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrRefitFailed)
}
