// Package workflow provides the contract-driven workflow execution core for ONEX.
package workflow

import (
	"fmt"
	"strings"
)

// Error codes surfaced to callers. Every error produced by validation, the
// scheduler, the executor and the registration reducer, guards and payload
// validation carries exactly one of these codes. The intent codec and the
// journal backends return plain errors without a code.
const (
	// CodeValidation marks semantic validation failures: cycles, duplicate
	// step IDs, bad dependency references, reserved-mode use, empty workflow
	// name, conditional step types, out-of-range timeouts.
	CodeValidation = "VALIDATION_ERROR"

	// CodeInvalidTransition marks a state-machine event that has no
	// transition from the current state.
	CodeInvalidTransition = "INVALID_TRANSITION"

	// CodeStateMismatch marks a caller-supplied state that disagrees with
	// the state implied by the accompanying context.
	CodeStateMismatch = "STATE_MISMATCH"

	// CodeRetryExhausted marks a retry attempt past the bounded retry budget.
	CodeRetryExhausted = "RETRY_EXHAUSTED"

	// CodeGuardFailed marks a transition blocked by a guard that evaluated
	// cleanly to false.
	CodeGuardFailed = "GUARD_FAILED"

	// CodeGuardEvaluation marks a guard that could not be evaluated because
	// its operator is not supported.
	CodeGuardEvaluation = "GUARD_EVALUATION_ERROR"

	// CodeGuardType marks a guard whose operand types do not fit its operator.
	CodeGuardType = "GUARD_TYPE_ERROR"
)

// Error is a tagged error value carrying a machine-readable code, a human
// message, and a context bag with the values that triggered it.
//
// Errors are values, not control flow: execution-time failures inside the
// executor never surface as Error; they land in the result's failed bucket.
// Error is reserved for validation and state-machine misuse.
type Error struct {
	// Code is one of the Code* constants above.
	Code string

	// Message is the human-readable description.
	Message string

	// Context carries the offending values (step IDs, field names, states).
	// May be nil.
	Context map[string]any

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Unwrap returns the underlying cause for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error with the given code and formatted message.
func NewError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithContext returns a copy of the error with the key/value added to its
// context bag. The receiver is not modified.
func (e *Error) WithContext(key string, value any) *Error {
	clone := *e
	clone.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		clone.Context[k] = v
	}
	clone.Context[key] = value
	return &clone
}

// ValidationErrors aggregates every validation failure found in a single
// Validate call, in deterministic order: definition-level errors first, then
// step-structural errors in declaration order, then dependency errors in
// declaration order, then cycle errors last.
type ValidationErrors struct {
	Errors []*Error
}

// Error implements the error interface by joining the individual messages.
func (v *ValidationErrors) Error() string {
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Message
	}
	return fmt.Sprintf("%s: %s", CodeValidation, strings.Join(msgs, "; "))
}

// Len returns the number of collected errors.
func (v *ValidationErrors) Len() int { return len(v.Errors) }
