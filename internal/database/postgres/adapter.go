package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// Adapter holds a single short-lived connection. Callers open it, use it
// for one task and close it.
type Adapter struct {
	conn *pgx.Conn
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, params common.ConnectionParams) error {
	config, err := pgx.ParseConfig(params.PostgresURL())
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to parse connection parameters", err)
	}
	config.DefaultQueryExecMode = pgx.QueryExecModeExec
	if params.ConnectTimeout > 0 {
		config.ConnectTimeout = params.ConnectTimeout
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to connect to %s", params.Redacted()))
	}

	p.conn = conn
	return nil
}

func (p *Adapter) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close(context.Background())
	p.conn = nil
	return err
}

func (p *Adapter) Ping(ctx context.Context) error {
	if p.conn == nil {
		return errs.New(errs.ErrKindConnectionFailed, "not connected")
	}
	if err := p.conn.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// QuoteName quotes name as the identifier an unquoted reference to it
// resolves to. Generated INSERTs leave names unquoted, so postgres folds
// them to lower case; lookups must target the same relation.
func QuoteName(name string) string {
	return pq.QuoteIdentifier(strings.ToLower(name))
}

// QualifiedName quotes schema and table as a postgres identifier pair.
func QualifiedName(schemaName, table string) string {
	if schemaName == "" {
		return QuoteName(table)
	}
	return QuoteName(schemaName) + "." + QuoteName(table)
}

// MaxQuery builds the SELECT MAX statement used for watermarks.
func (p *Adapter) MaxQuery(schemaName, table, column string) (string, []interface{}, error) {
	return p.qb.
		Select(fmt.Sprintf("MAX(%s)", QuoteName(column))).
		From(QualifiedName(schemaName, table)).
		ToSql()
}

func (p *Adapter) MaxIntValue(ctx context.Context, schemaName, table, column string) (int64, bool, error) {
	if p.conn == nil {
		return 0, false, errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	query, args, err := p.MaxQuery(schemaName, table, column)
	if err != nil {
		return 0, false, errs.Wrap(errs.ErrKindInvalidInput, "failed to build max query", err)
	}

	var value *int64
	if err := p.conn.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return 0, false, mapError(err, fmt.Sprintf("failed to read max of %s.%s", table, column))
	}
	if value == nil {
		return 0, false, nil
	}
	return *value, true, nil
}

func (p *Adapter) TableExists(ctx context.Context, schemaName, table string) (bool, error) {
	if p.conn == nil {
		return false, errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	query, args, err := p.qb.
		Select("1").
		From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": strings.ToLower(schemaName), "table_name": strings.ToLower(table)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, errs.Wrap(errs.ErrKindInvalidInput, "failed to build table lookup", err)
	}

	var exists bool
	if err := p.conn.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, mapError(err, fmt.Sprintf("failed to look up table %s", table))
	}
	return exists, nil
}

// ExecuteBatch runs the statements in one transaction. The first failure
// rolls everything back.
func (p *Adapter) ExecuteBatch(ctx context.Context, statements []string) error {
	if p.conn == nil {
		return errs.New(errs.ErrKindConnectionFailed, "not connected")
	}

	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return mapError(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapError(err, fmt.Sprintf("failed to execute statement %d", i+1)).AtStatement(i + 1)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	return nil
}
