package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs the ledger and the anonymizer store care about
const (
	sqlUniqueViolation     = "23505"
	sqlForeignKeyViolation = "23503"
	sqlNotNullViolation    = "23502"
	sqlCheckViolation      = "23514"
	sqlInvalidText         = "22P02"
	sqlSerialization       = "40001"
	sqlDeadlock            = "40P01"
	sqlLockNotAvailable    = "55P03"
	sqlQueryCanceled       = "57014" // statement_timeout
	sqlCannotConnectNow    = "57P03"
	sqlAdminShutdown       = "57P01"
)

// PgError returns the *pgconn.PgError in err's chain
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err carries the given SQLSTATE
func IsSQLState(err error, state string) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == state
}

// IsDuplicateKey reports a unique violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, sqlUniqueViolation) }

// DBCode maps a Postgres error to a code; non Postgres errors are DB
func DBCode(err error) ErrorCode {
	pgErr, ok := PgError(err)
	if !ok {
		return ErrorCodeDB
	}
	switch pgErr.Code {
	case sqlUniqueViolation:
		return ErrorCodeConflict
	case sqlForeignKeyViolation, sqlInvalidText:
		return ErrorCodeInvalidArgument
	case sqlNotNullViolation, sqlCheckViolation:
		return ErrorCodeValidation
	case sqlCannotConnectNow, sqlAdminShutdown:
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// FromPostgres wraps err with the code DBCode picks; nil stays nil.
// The column, when Postgres names one, becomes the field
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	out := Wrap(err, DBCode(err), msg)
	if pgErr, ok := PgError(err); ok && pgErr.ColumnName != "" {
		out = WithField(out, pgErr.ColumnName)
	}
	return out
}

// IsRetryable reports transient Postgres contention. Context cancellation
// is never retryable
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := PgError(err); ok {
		switch pgErr.Code {
		case sqlSerialization, sqlDeadlock, sqlLockNotAvailable, sqlCannotConnectNow:
			return true
		}
		return false
	}
	// pgx reports an aborted commit as text only
	return strings.Contains(strings.ToLower(Root(err).Error()), "commit unexpectedly resulted in rollback")
}
