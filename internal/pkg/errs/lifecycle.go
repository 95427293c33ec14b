package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState        = errors.New("invalid state")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAlreadyAssigned     = errors.New("already assigned")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrLedgerInconsistency = errors.New("ledger inconsistency")
	ErrResourceBusy        = errors.New("resource busy")
)

// InvalidStateError reports an event that is not legal from the current status.
type InvalidStateError struct {
	Action  string
	Current string
	Cause   error
}

func NewInvalidStateError(action, current string) *InvalidStateError {
	return &InvalidStateError{Action: action, Current: current}
}

func NewInvalidStateErrorWithCause(action, current string, cause error) *InvalidStateError {
	return &InvalidStateError{Action: action, Current: current, Cause: cause}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s from status %s", ErrInvalidState, e.Action, e.Current)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// UnauthorizedError reports an actor that is not entitled to perform the action.
type UnauthorizedError struct {
	ActorID any
	Reason  string
}

func NewUnauthorizedError(actorID any, reason string) *UnauthorizedError {
	return &UnauthorizedError{ActorID: actorID, Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: actor %s: %s", ErrUnauthorized, e.ActorID, sanitize(e.Reason))
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// AlreadyAssignedError reports a lost claim race.
type AlreadyAssignedError struct {
	OrderID any
	Status  string
}

func NewAlreadyAssignedError(orderID any, status string) *AlreadyAssignedError {
	return &AlreadyAssignedError{OrderID: orderID, Status: status}
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: order %s is already taken (status %s)", ErrAlreadyAssigned, e.OrderID, e.Status)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

// ConcurrencyConflictError reports a conditional update that affected zero rows.
// Callers re-read and reclassify it; it is never returned to clients.
type ConcurrencyConflictError struct {
	ParamName string
	ID        any
}

func NewConcurrencyConflictError(paramName string, id any) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{ParamName: paramName, ID: id}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s changed concurrently", ErrConcurrencyConflict, e.ParamName, e.ID)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// LedgerInconsistencyError reports a missing or duplicated earning for a completed order.
type LedgerInconsistencyError struct {
	OrderID any
	Reason  string
}

func NewLedgerInconsistencyError(orderID any, reason string) *LedgerInconsistencyError {
	return &LedgerInconsistencyError{OrderID: orderID, Reason: reason}
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("%s: order %s: %s", ErrLedgerInconsistency, e.OrderID, e.Reason)
}

func (e *LedgerInconsistencyError) Unwrap() error {
	return ErrLedgerInconsistency
}

// ResourceBusyError is retryable: the resource could not be locked within the bounded wait.
type ResourceBusyError struct {
	Resource string
	Cause    error
}

func NewResourceBusyError(resource string, cause error) *ResourceBusyError {
	return &ResourceBusyError{Resource: resource, Cause: cause}
}

func (e *ResourceBusyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrResourceBusy, e.Resource, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrResourceBusy, e.Resource)
}

// Unwrap exposes the driver error as well, so callers can still inspect the SQLSTATE.
func (e *ResourceBusyError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrResourceBusy}
	}
	return []error{ErrResourceBusy, e.Cause}
}
