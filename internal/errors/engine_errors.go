package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the different failure classes of the risk engine
type ErrorCategory string

const (
	// Fatal at construction time: a configuration value is outside its
	// documented domain. Never recovered silently.
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Fatal for a single sizing call: the caller violated the sizing
	// contract (entry equals stop, non-positive price).
	ErrorCategoryDegenerateStop ErrorCategory = "DEGENERATE_STOP"

	// Recoverable: window or ledger shorter than the statistical
	// minimum. Components fall back to a documented degraded answer.
	ErrorCategoryInsufficientData ErrorCategory = "INSUFFICIENT_DATA"

	// Recoverable: unexpected but non-fatal condition inside a component.
	ErrorCategoryComputation ErrorCategory = "COMPUTATION"
)

// EngineError is a categorized error with component context
type EngineError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error must be surfaced to the caller
// rather than recovered with a statistical fallback.
func (e *EngineError) IsFatal() bool {
	return e.Category == ErrorCategoryConfiguration || e.Category == ErrorCategoryDegenerateStop
}

// WithContext adds context information to the error
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewEngineError creates a new categorized engine error
func NewEngineError(category ErrorCategory, component, operation, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with engine error context
func WrapError(err error, category ErrorCategory, component, operation string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// NewDegenerateStopError reports a sizing call where the stop distance
// is zero or a price is non-positive.
func NewDegenerateStopError(component string, entry, stop float64) *EngineError {
	return NewEngineError(ErrorCategoryDegenerateStop, component, "size",
		fmt.Sprintf("degenerate entry/stop pair: entry=%.8f stop=%.8f", entry, stop)).
		WithContext("entry_price", entry).
		WithContext("stop_loss_price", stop)
}

// NewInsufficientDataError reports a window or ledger shorter than the
// minimum a statistical estimator needs.
func NewInsufficientDataError(component, operation string, have, need int) *EngineError {
	return NewEngineError(ErrorCategoryInsufficientData, component, operation,
		fmt.Sprintf("need at least %d data points, got %d", need, have)).
		WithContext("have", have).
		WithContext("need", need)
}

// NewInvalidConfigurationError reports a configuration value outside
// its documented domain.
func NewInvalidConfigurationError(component, message string) *EngineError {
	return NewEngineError(ErrorCategoryConfiguration, component, "configure", message)
}

// IsDegenerateStop reports whether err is a sizing contract violation.
func IsDegenerateStop(err error) bool {
	return hasCategory(err, ErrorCategoryDegenerateStop)
}

// IsInsufficientData reports whether err is a recoverable data-size error.
func IsInsufficientData(err error) bool {
	return hasCategory(err, ErrorCategoryInsufficientData)
}

// IsInvalidConfiguration reports whether err is a construction-time
// configuration error.
func IsInvalidConfiguration(err error) bool {
	return hasCategory(err, ErrorCategoryConfiguration)
}

func hasCategory(err error, category ErrorCategory) bool {
	var engineErr *EngineError
	if stderrors.As(err, &engineErr) {
		return engineErr.Category == category
	}
	return false
}
