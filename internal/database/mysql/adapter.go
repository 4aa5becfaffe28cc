package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	gomysql "github.com/go-sql-driver/mysql"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// DSN renders params in go-sql-driver format.
func DSN(params common.ConnectionParams) string {
	cfg := gomysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = params.Address(3306)
	cfg.DBName = params.DBName
	if params.ConnectTimeout > 0 {
		cfg.Timeout = params.ConnectTimeout
	}

	switch params.SSLMode {
	case "require":
		cfg.TLSConfig = "skip-verify"
	case "verify-ca", "verify-full":
		cfg.TLSConfig = "true"
	case "disable":
		cfg.TLSConfig = "false"
	}
	return cfg.FormatDSN()
}

func (m *Adapter) Connect(ctx context.Context, params common.ConnectionParams) error {
	db, err := sql.Open("mysql", DSN(params))
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to open MySQL connection", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return mapError(err, fmt.Sprintf("failed to connect to %s", params.Redacted()))
	}

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func (m *Adapter) Ping(ctx context.Context) error {
	if m.db == nil {
		return errs.New(errs.ErrKindConnectionFailed, "not connected")
	}
	if err := m.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// QualifiedName quotes schema and table with backticks.
func QualifiedName(schemaName, table string) string {
	if schemaName == "" {
		return common.QuoteIdent(table, '`')
	}
	return common.QuoteIdent(schemaName, '`') + "." + common.QuoteIdent(table, '`')
}

func (m *Adapter) MaxQuery(schemaName, table, column string) (string, []interface{}, error) {
	return m.qb.
		Select(fmt.Sprintf("MAX(%s)", common.QuoteIdent(column, '`'))).
		From(QualifiedName(schemaName, table)).
		ToSql()
}

func (m *Adapter) MaxIntValue(ctx context.Context, schemaName, table, column string) (int64, bool, error) {
	if m.db == nil {
		return 0, false, errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	query, args, err := m.MaxQuery(schemaName, table, column)
	if err != nil {
		return 0, false, errs.Wrap(errs.ErrKindInvalidInput, "failed to build max query", err)
	}

	var value sql.NullInt64
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return 0, false, mapError(err, fmt.Sprintf("failed to read max of %s.%s", table, column))
	}
	return value.Int64, value.Valid, nil
}

func (m *Adapter) TableExists(ctx context.Context, schemaName, table string) (bool, error) {
	if m.db == nil {
		return false, errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	query, args, err := m.qb.
		Select("COUNT(*)").
		From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": schemaName, "table_name": table}).
		ToSql()
	if err != nil {
		return false, errs.Wrap(errs.ErrKindInvalidInput, "failed to build table lookup", err)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, mapError(err, fmt.Sprintf("failed to look up table %s", table))
	}
	return count > 0, nil
}

func (m *Adapter) ExecuteBatch(ctx context.Context, statements []string) error {
	if m.db == nil {
		return errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	tx, err := m.db.BeginTx(ctx, nil)
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
