package database

import (
	"context"

	"github.com/Rana718/dictseed/internal/database/common"
)

type ConnectionParams = common.ConnectionParams

type DatabaseAdapter interface {
	Connect(ctx context.Context, params ConnectionParams) error
	Close() error
	Ping(ctx context.Context) error

	// Watermarks
	MaxIntValue(ctx context.Context, schemaName, table, column string) (int64, bool, error)
	TableExists(ctx context.Context, schemaName, table string) (bool, error)

	// ExecuteBatch runs all statements in one transaction
	ExecuteBatch(ctx context.Context, statements []string) error
}
