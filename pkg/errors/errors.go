// Package errors provides the unified error type and factory functions for the
// cytodyn simulation service.  Every layer (domain, application, interfaces)
// uses AppError as the single carrier for structured error information,
// enabling consistent HTTP responses, logging, and monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout cytodyn.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeUnknownCellLine, "cell line HeLa-R not found")
//	return errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to parse catalog overlay")
//	return errors.InvalidParameters("duration must be positive").WithDetail("duration=-5")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error, suitable
	// for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (field names, requested values)
	// that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error that triggered this AppError, enabling
	// errors.Is / errors.As traversal of the full error chain.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is intentionally not included in Error() output to keep
	// API error messages clean; the logging middleware inspects it directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", detail omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error, enabling errors.Is and errors.As
// to traverse the full error chain.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
// A call-stack snapshot is captured automatically.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
// When err is already an *AppError and code is CodeUnknown the original code
// is preserved, preventing loss of the original classification during
// cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.  It is the idiomatic way to check domain-specific failure modes:
//
//	if errors.IsCode(err, errors.ErrCodeUnknownCellLine) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain.  If no *AppError is present, CodeUnknown is returned.  Useful in
// middleware / logging layers that need a single code to emit as a metric
// label without coupling to specific domain errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsUnknownCellLine reports whether err's chain carries ErrCodeUnknownCellLine.
func IsUnknownCellLine(err error) bool { return IsCode(err, ErrCodeUnknownCellLine) }

// IsInvalidParameters reports whether err's chain carries any of the
// parameter-validation codes.
func IsInvalidParameters(err error) bool {
	return IsCode(err, ErrCodeInvalidParameters) ||
		IsCode(err, ErrCodeBadRequest) ||
		IsCode(err, ErrCodeValidation) ||
		IsCode(err, ErrCodeUnknownDrug)
}

// IsNumericalInstability reports whether err's chain carries
// ErrCodeNumericalInstability or a timeout.
func IsNumericalInstability(err error) bool {
	return IsCode(err, ErrCodeNumericalInstability) || IsCode(err, ErrCodeTimeout)
}

// IsPredictorUnavailable reports whether err's chain carries
// ErrCodePredictorUnavailable.
func IsPredictorUnavailable(err error) bool { return IsCode(err, ErrCodePredictorUnavailable) }

// UnknownCellLine constructs a ErrCodeUnknownCellLine AppError for name.
func UnknownCellLine(name string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownCellLine,
		Message: fmt.Sprintf("unknown cell line %q", name),
		Stack:   captureStack(1),
	}
}

// InvalidParameters constructs an ErrCodeInvalidParameters AppError.
// The message should name the offending field.
func InvalidParameters(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParameters,
		Message: message,
		Stack:   captureStack(1),
	}
}

// NumericalInstability constructs an ErrCodeNumericalInstability AppError.
func NumericalInstability(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNumericalInstability,
		Message: message,
		Stack:   captureStack(1),
	}
}

// PredictorUnavailable constructs an ErrCodePredictorUnavailable AppError.
func PredictorUnavailable(message string) *AppError {
	return &AppError{
		Code:    ErrCodePredictorUnavailable,
		Message: message,
		Stack:   captureStack(1),
	}
}

// NotFound constructs a generic ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs an ErrCodeInternal AppError.  Use for unexpected
// server-side failures where no more specific code applies; always log the
// underlying cause.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}
