package services

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindInvalidState      ErrorKind = "invalid_state"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindNotOpenForVoting  ErrorKind = "not_open_for_voting"
	KindInsufficientVotes ErrorKind = "insufficient_votes"
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation_error"
)

var (
	ErrInvalidState      = &WorkflowError{Kind: KindInvalidState}
	ErrUnauthorized      = &WorkflowError{Kind: KindUnauthorized}
	ErrNotOpenForVoting  = &WorkflowError{Kind: KindNotOpenForVoting}
	ErrInsufficientVotes = &WorkflowError{Kind: KindInsufficientVotes}
	ErrNotFound          = &WorkflowError{Kind: KindNotFound}
	ErrValidation        = &WorkflowError{Kind: KindValidation}
)

// WorkflowError is an expected business outcome. Reasons are human readable
// and safe to show to the caller.
type WorkflowError struct {
	Kind    ErrorKind
	Reasons []string
}

func (e *WorkflowError) Error() string {
	if len(e.Reasons) == 0 {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Reasons, "; "))
}

// Is matches on Kind only, so errors.Is(err, ErrInvalidState) holds for any
// invalid state failure regardless of its reasons.
func (e *WorkflowError) Is(target error) bool {
	other, ok := target.(*WorkflowError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newWorkflowError(kind ErrorKind, reasons ...string) *WorkflowError {
	return &WorkflowError{Kind: kind, Reasons: reasons}
}

func invalidState(format string, args ...any) error {
	return newWorkflowError(KindInvalidState, fmt.Sprintf(format, args...))
}

func unauthorized(format string, args ...any) error {
	return newWorkflowError(KindUnauthorized, fmt.Sprintf(format, args...))
}

func notFound(entity string, id int64) error {
	return newWorkflowError(KindNotFound, fmt.Sprintf("%s %d not found", entity, id))
}

// validationErrors collects every failed rule before reporting.
type validationErrors []string

func (v *validationErrors) check(ok bool, reason string) {
	if !ok {
		*v = append(*v, reason)
	}
}

func (v validationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return newWorkflowError(KindValidation, v...)
}

// AsWorkflowError reports the business failure carried by err, if any.
func AsWorkflowError(err error) (*WorkflowError, bool) {
	var workflowErr *WorkflowError
	if errors.As(err, &workflowErr) {
		return workflowErr, true
	}
	return nil, false
}
