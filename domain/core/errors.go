package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration / design-build errors, raised eagerly before any
	// evaluator invocation
	ErrInvalidDistribution = errors.New("invalid distribution")
	ErrInvalidBounds       = errors.New("invalid bounds")
	ErrDomain              = errors.New("domain error")
	ErrInvalidConfig       = errors.New("invalid study configuration")

	// Batch errors
	ErrEvaluation       = errors.New("evaluation failed")
	ErrAllSamplesFailed = errors.New("all samples failed")
	ErrNoData           = errors.New("no data")
	ErrInsufficientData = errors.New("insufficient data")

	// Persistence errors
	ErrStudyNotFound = errors.New("study not found")
)

// Error constructors with context
func NewInvalidDistributionError(varName, reason string) error {
	return fmt.Errorf("%w: variable %s: %s", ErrInvalidDistribution, varName, reason)
}

func NewInvalidBoundsError(varName string, lower, upper float64) error {
	return fmt.Errorf("%w: variable %s: lower %g >= upper %g", ErrInvalidBounds, varName, lower, upper)
}

func NewDomainError(varName, reason string) error {
	return fmt.Errorf("%w: variable %s: %s", ErrDomain, varName, reason)
}

func NewConfigError(field, reason string) error {
	return fmt.Errorf("%w: field %s: %s", ErrInvalidConfig, field, reason)
}

func NewEvaluationError(sampleIndex int, cause error) error {
	return fmt.Errorf("%w: sample %d: %v", ErrEvaluation, sampleIndex, cause)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDistribution) ||
		errors.Is(err, ErrInvalidBounds) ||
		errors.Is(err, ErrDomain) ||
		errors.Is(err, ErrInvalidConfig)
}

func IsFatalError(err error) bool {
	return errors.Is(err, ErrAllSamplesFailed) ||
		errors.Is(err, ErrInvalidConfig)
}
