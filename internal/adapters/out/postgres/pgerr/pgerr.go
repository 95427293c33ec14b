// Package pgerr maps PostgreSQL error codes onto the errs taxonomy.
package pgerr

import (
	"errors"

	"dispatch/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	CodeUniqueViolation      = "23505"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
	CodeQueryCanceled        = "57014"
)

// Code extracts the SQLSTATE from err. Both the pgx driver used by gorm and lib/pq are
// recognised; an empty string means err did not come from the server.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

func IsCheckViolation(err error) bool {
	return Code(err) == CodeCheckViolation
}

// IsRetryable reports lock timeouts, serialization failures and deadlocks.
func IsRetryable(err error) bool {
	switch Code(err) {
	case CodeLockNotAvailable, CodeSerializationFailure, CodeDeadlockDetected:
		return true
	default:
		return false
	}
}

// Classify wraps retryable failures into errs.ResourceBusyError and returns every other
// error unchanged.
func Classify(resource string, err error) error {
	if err == nil {
		return nil
	}
	if IsRetryable(err) {
		return errs.NewResourceBusyError(resource, err)
	}
	return err
}
