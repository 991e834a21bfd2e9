package service

import (
	"errors"
	"fmt"
)

var (
	ErrRequisitionNotFound = errors.New("requisition not found")
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrStaffNotFound       = errors.New("staff member not found")

	// ErrNoAuthorizedSlot is returned when the acting identity holds no
	// Pending slot on the requisition — wrong person, or already decided.
	ErrNoAuthorizedSlot = errors.New("no pending approval slot for this identity")

	// ErrAlreadyDecided is the single-approver counterpart for leave requests.
	ErrAlreadyDecided = errors.New("request has already been decided")
)

// ValidationError reports a malformed or incomplete submission. It is never
// retried; the submitter corrects the request and resubmits.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IntegrityError reports a requisition whose stored final status disagrees
// with its slot statuses. The record was mutated outside the approval
// engine; it is surfaced, never silently repaired.
type IntegrityError struct {
	RequisitionID uint
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("requisition %d: final status inconsistent with slot statuses", e.RequisitionID)
}
