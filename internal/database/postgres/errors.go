package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/dictseed/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes and classes
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnection     = "08"
	pgClassAuthorization  = "28"
	pgErrInsufficientPriv = "42501"
	pgErrUndefinedTable   = "42P01"
	pgErrUndefinedColumn  = "42703"
	pgErrUndefinedSchema  = "3F000"
	pgErrQueryCanceled    = "57014"
)

// mapError translates pgx / pgconn errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := classifySQLState(pgErr.Code)
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

func classifySQLState(code string) errs.ErrKind {
	switch {
	case len(code) >= 2 && code[:2] == pgClassConnection:
		return errs.ErrKindConnectionFailed
	case len(code) >= 2 && code[:2] == pgClassAuthorization, code == pgErrInsufficientPriv:
		return errs.ErrKindPermissionDenied
	case code == pgErrUndefinedTable, code == pgErrUndefinedColumn, code == pgErrUndefinedSchema:
		return errs.ErrKindNotFound
	case code == pgErrQueryCanceled:
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}
