package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/offerdesk/pkg/models"
)

var (
	// ErrNotFound is returned when no offer has the requested id.
	ErrNotFound = errors.New("workflow: offer not found")
	// ErrDispatchFailed wraps a failed delivery of the offer email. The
	// offer stays in confirming_send and Send may be called again.
	ErrDispatchFailed = errors.New("workflow: offer email dispatch failed")
	// ErrPrecondition is returned when a flag is recorded out of order.
	ErrPrecondition = errors.New("workflow: precondition not met")
)

// FieldError names one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of an input. No state changes
// when it is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "workflow: invalid offer: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the invalid fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// TransitionError is returned for a transition the lifecycle does not allow.
type TransitionError struct {
	From models.WorkflowState
	To   models.WorkflowState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("workflow: cannot move offer from %s to %s", e.From, e.To)
}
