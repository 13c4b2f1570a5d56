package backend

import (
	"errors"
	"fmt"
)

// Kind is the coarse outcome of a failed backend call.
type Kind int

const (
	// KindRejected means the backend answered and refused the request.
	KindRejected Kind = iota
	// KindUnavailable means the backend could not be reached or failed.
	KindUnavailable
)

// Machine reasons attached to rejections.
const (
	ReasonNotFound      = "not_found"
	ReasonAlreadyJoined = "already_joined"
	ReasonEventFull     = "event_full"
	ReasonValidation    = "validation"
	ReasonRejected      = "rejected"
)

// Error is the only error type returned by Client operations. Raw transport
// errors never escape: they are wrapped as KindUnavailable.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Reason string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("backend: %s: %s (%d)", e.Op, e.Detail, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("backend: %s: %s (%d)", e.Op, e.Reason, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code exposes the machine reason for log error codes.
func (e *Error) Code() string {
	if e.Kind == KindUnavailable {
		return "unavailable"
	}
	return e.Reason
}

// IsUnavailable reports whether err is a backend availability failure.
func IsUnavailable(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindUnavailable
}

// IsRejected reports whether the backend refused the request, optionally
// matching one of the given reasons.
func IsRejected(err error, reasons ...string) bool {
	var be *Error
	if !errors.As(err, &be) || be.Kind != KindRejected {
		return false
	}
	if len(reasons) == 0 {
		return true
	}
	for _, r := range reasons {
		if be.Reason == r {
			return true
		}
	}
	return false
}

// IsNotFound reports whether the backend answered 404 for the entity.
func IsNotFound(err error) bool {
	return IsRejected(err, ReasonNotFound)
}

// RejectionDetail returns the backend-provided human detail, if any.
func RejectionDetail(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Detail
	}
	return ""
}
