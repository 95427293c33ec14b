// Package errs provides standardized error types for the dispatch service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Validation and lookup errors:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - ObjectNotFoundError
//
// Order lifecycle errors:
//   - InvalidStateError: event is not legal from the current status
//   - UnauthorizedError: actor is not the owner, bound courier or placing customer
//   - AlreadyAssignedError: a claim lost the race
//   - ConcurrencyConflictError: a conditional update matched no row (internal, reclassified)
//   - LedgerInconsistencyError: a completed order without exactly one earning
//   - ResourceBusyError: lock could not be acquired in time, retryable
//
// Each error type follows the same shape: a sentinel variable, a struct with the
// details, constructors with and without cause, Error() and Unwrap() returning the
// sentinel so callers can classify with errors.Is.
package errs
