package database

import (
	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/database/mysql"
	"github.com/Rana718/dictseed/internal/database/postgres"
	"github.com/Rana718/dictseed/internal/database/sqlite"
	"github.com/Rana718/dictseed/internal/errs"
)

// NewAdapter returns an unconnected adapter for provider.
func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch common.NormalizeProvider(provider) {
	case common.ProviderPostgres:
		return postgres.New(), nil
	case common.ProviderMySQL:
		return mysql.New(), nil
	case common.ProviderSQLite:
		return sqlite.New(), nil
	default:
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported database provider %q", provider)
	}
}
