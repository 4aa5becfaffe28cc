package database

import (
	"context"
	"time"

	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/Rana718/dictseed/internal/logger"
)

// Client runs work against the destination store. Every call opens its own
// connection and closes it before returning.
type Client struct {
	params     ConnectionParams
	newAdapter func(provider string) (DatabaseAdapter, error)
}

func NewClient(params ConnectionParams) *Client {
	params.Provider = common.NormalizeProvider(params.Provider)
	return &Client{params: params, newAdapter: NewAdapter}
}

func (c *Client) Params() ConnectionParams {
	return c.params
}

func (c *Client) open(ctx context.Context) (DatabaseAdapter, error) {
	adapter, err := c.newAdapter(c.params.Provider)
	if err != nil {
		return nil, err
	}

	connectCtx := ctx
	if c.params.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, c.params.ConnectTimeout)
		defer cancel()
	}

	if err := adapter.Connect(connectCtx, c.params); err != nil {
		if errs.KindOf(err) == errs.ErrKindUnknown {
			return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to connect", err)
		}
		return nil, err
	}
	return adapter, nil
}

func (c *Client) Ping(ctx context.Context) error {
	adapter, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer adapter.Close()
	return adapter.Ping(ctx)
}

// MaxValue reads MAX(column) over a short-lived connection. ok is false
// when the table is empty.
func (c *Client) MaxValue(ctx context.Context, schemaName, table, column string) (int64, bool, error) {
	adapter, err := c.open(ctx)
	if err != nil {
		return 0, false, err
	}
	defer adapter.Close()

	return adapter.MaxIntValue(ctx, schemaName, table, column)
}

// MissingTables returns the tables that do not exist in schemaName.
func (c *Client) MissingTables(ctx context.Context, schemaName string, tables []string) ([]string, error) {
	adapter, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer adapter.Close()

	var missing []string
	for _, table := range tables {
		exists, err := adapter.TableExists(ctx, schemaName, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// ExecuteInserts splits sql into statements and applies them in a single
// transaction. It returns how many statements ran. Nothing is committed
// unless every statement succeeds.
func (c *Client) ExecuteInserts(ctx context.Context, sql string) (int, error) {
	statements := common.ParseSQLStatements(sql)
	if len(statements) == 0 {
		return 0, nil
	}

	log := logger.FromContext(ctx).With().
		Str("provider", c.params.Provider).
		Str("target", c.params.Redacted()).
		Int("statements", len(statements)).
		Logger()

	adapter, err := c.open(ctx)
	if err != nil {
		log.ErrorWith("connection failed", err, nil)
		return 0, err
	}
	defer adapter.Close()

	start := time.Now()
	if err := adapter.ExecuteBatch(ctx, statements); err != nil {
		log.ErrorWith("batch rolled back", err, map[string]interface{}{
			"statement": errs.StatementOf(err),
		})
		if errs.KindOf(err) == errs.ErrKindUnknown {
			return 0, errs.Wrap(errs.ErrKindQueryFailed, "batch failed", err)
		}
		return 0, err
	}

	log.InfoWith("batch committed", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return len(statements), nil
}
