package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/mattn/go-sqlite3"
)

// MainSchema is the name sqlite gives the primary database file.
const MainSchema = "main"

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// DSN maps params to a go-sqlite3 file DSN. DBName is the database path.
func DSN(params common.ConnectionParams) string {
	path := strings.TrimPrefix(params.DBName, "sqlite://")
	if strings.Contains(path, "?") {
		return path
	}
	busy := 5000
	if params.ConnectTimeout > 0 {
		busy = int(params.ConnectTimeout.Milliseconds())
	}
	return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", path, busy)
}

func (s *Adapter) Connect(ctx context.Context, params common.ConnectionParams) error {
	if params.DBName == "" {
		return errs.New(errs.ErrKindInvalidInput, "sqlite needs a database path")
	}

	db, err := sql.Open("sqlite3", DSN(params))
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to open SQLite database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return mapError(err, fmt.Sprintf("failed to open %s", params.DBName))
	}

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Adapter) Ping(ctx context.Context) error {
	if s.db == nil {
		return errs.New(errs.ErrKindConnectionFailed, "not connected")
	}
	if err := s.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func QualifiedName(schemaName, table string) string {
	if schemaName == "" {
		return common.QuoteIdent(table, '"')
	}
	return common.QuoteIdent(schemaName, '"') + "." + common.QuoteIdent(table, '"')
}

func (s *Adapter) MaxQuery(schemaName, table, column string) (string, []interface{}, error) {
	return s.qb.
		Select(fmt.Sprintf("MAX(%s)", common.QuoteIdent(column, '"'))).
		From(QualifiedName(schemaName, table)).
		ToSql()
}

func (s *Adapter) MaxIntValue(ctx context.Context, schemaName, table, column string) (int64, bool, error) {
	if s.db == nil {
		return 0, false, errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	query, args, err := s.MaxQuery(schemaName, table, column)
	if err != nil {
		return 0, false, errs.Wrap(errs.ErrKindInvalidInput, "failed to build max query", err)
	}

	var value sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return 0, false, mapError(err, fmt.Sprintf("failed to read max of %s.%s", table, column))
	}
	return value.Int64, value.Valid, nil
}

func (s *Adapter) TableExists(ctx context.Context, schemaName, table string) (bool, error) {
	if s.db == nil {
		return false, errs.New(errs.ErrKindConnectionFailed, "not connected")
	}
	if schemaName == "" {
		schemaName = MainSchema
	}

	query, args, err := s.qb.
		Select("COUNT(*)").
		From(common.QuoteIdent(schemaName, '"') + ".sqlite_master").
		Where(squirrel.Eq{"type": "table", "name": table}).
		ToSql()
	if err != nil {
		return false, errs.Wrap(errs.ErrKindInvalidInput, "failed to build table lookup", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, mapError(err, fmt.Sprintf("failed to look up table %s", table))
	}
	return count > 0, nil
}

func (s *Adapter) ExecuteBatch(ctx context.Context, statements []string) error {
	if s.db == nil {
		return errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return mapError(err, fmt.Sprintf("failed to execute statement %d", i+1)).AtStatement(i + 1)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	return nil
}

// mapError translates go-sqlite3 errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		msg = fmt.Sprintf("%s: %s", msg, sqliteErr.Error())
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}
		if strings.Contains(sqliteErr.Error(), "no such table") {
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
