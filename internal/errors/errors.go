package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// CapabilityUnavailableError reports an external collaborator (camera, file
// parser, renderer, backend) that could not be reached or refused access.
type CapabilityUnavailableError struct {
	Capability string
	Cause      error
}

func (e *CapabilityUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Capability, e.Cause)
	}
	return e.Capability + " unavailable"
}

func (e *CapabilityUnavailableError) Unwrap() error {
	return e.Cause
}

func NewCapabilityUnavailableError(capability string, cause error) *CapabilityUnavailableError {
	return &CapabilityUnavailableError{
		Capability: capability,
		Cause:      cause,
	}
}

func IsCapabilityUnavailableError(err error) (*CapabilityUnavailableError, bool) {
	var cue *CapabilityUnavailableError
	if stderrors.As(err, &cue) {
		return cue, true
	}
	return nil, false
}

// GestureConflictError is internal only: a gesture was dropped because another
// interaction (cell edit, column resize, drag) currently owns the pointer.
type GestureConflictError struct {
	Gesture string
	Reason  string
}

func (e *GestureConflictError) Error() string {
	return fmt.Sprintf("%s suppressed: %s", e.Gesture, e.Reason)
}

func NewGestureConflictError(gesture, reason string) *GestureConflictError {
	return &GestureConflictError{
		Gesture: gesture,
		Reason:  reason,
	}
}

func IsGestureConflictError(err error) (*GestureConflictError, bool) {
	var gce *GestureConflictError
	if stderrors.As(err, &gce) {
		return gce, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
