package errors

// Postgres classification for the sample store read path

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values seen by read-only aggregate queries
const (
	pgErrUndefinedTable        = "42P01"
	pgErrUndefinedColumn       = "42703"
	pgErrInsufficientPrivilege = "42501"
	pgErrInvalidTextRepr       = "22P02"
	pgErrDatetimeOverflow      = "22008"

	pgErrQueryCanceled     = "57014"
	pgErrAdminShutdown     = "57P01"
	pgErrCannotConnectNow  = "57P03"
	pgErrTooManyConnection = "53300"
	pgErrSerialization     = "40001"
	pgErrDeadlock          = "40P01"
)

// PgError returns the *pgconn.PgError at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with code
func IsSQLState(err error, code string) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == code
}

// IsMissingSchema reports whether the sample table or one of its columns is absent
func IsMissingSchema(err error) bool {
	return IsSQLState(err, pgErrUndefinedTable) || IsSQLState(err, pgErrUndefinedColumn)
}

// PgErrorCode maps a Postgres error to an ErrorCode
// ok is false when err carries no PgError
func PgErrorCode(err error) (code ErrorCode, ok bool) {
	pgErr, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgErrQueryCanceled:
		return ErrorCodeTimeout, true
	case pgErrAdminShutdown, pgErrCannotConnectNow, pgErrTooManyConnection,
		pgErrSerialization, pgErrDeadlock, pgErrUndefinedTable, pgErrUndefinedColumn:
		return ErrorCodeUnavailable, true
	case pgErrInvalidTextRepr, pgErrDatetimeOverflow:
		return ErrorCodeInvalidArgument, true
	case pgErrInsufficientPrivilege:
		return ErrorCodeDB, true
	}
	if strings.HasPrefix(pgErr.Code, "08") {
		// connection exception class
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with the code PgErrorCode picks, nil stays nil
// Context cancellation keeps its own classification
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrorCodeTimeout, msg)
	}
	if stderrs.Is(err, context.Canceled) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	if IsMissingSchema(err) {
		return Wrap(err, ErrorCodeUnavailable, msg+" (sample schema missing, run migrations)")
	}
	if code, ok := PgErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	var connErr *pgconn.ConnectError
	if stderrs.As(err, &connErr) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// IsRetryable reports whether a read may succeed when repeated as is
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	pgErr, ok := PgError(err)
	if !ok {
		return false
	}
	switch pgErr.Code {
	case pgErrSerialization, pgErrDeadlock, pgErrCannotConnectNow, pgErrAdminShutdown, pgErrTooManyConnection:
		return true
	}
	return strings.HasPrefix(pgErr.Code, "08")
}
