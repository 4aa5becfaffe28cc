package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Adapter {
	t.Helper()
	a := New()
	path := filepath.Join(t.TempDir(), "seed.db")
	require.NoError(t, a.Connect(context.Background(), common.ConnectionParams{Provider: "sqlite", DBName: path}))
	t.Cleanup(func() { a.Close() })
	return a
}

func TestMaxQuery(t *testing.T) {
	query, _, err := New().MaxQuery(MainSchema, "pedidos", "id")
	require.NoError(t, err)
	assert.Equal(t, `SELECT MAX("id") FROM "main"."pedidos"`, query)
}

func TestAdapter_Batch(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()

	require.NoError(t, a.ExecuteBatch(ctx, []string{
		`CREATE TABLE clientes (id INTEGER PRIMARY KEY, nome TEXT)`,
	}))

	_, found, err := a.MaxIntValue(ctx, MainSchema, "clientes", "id")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, a.ExecuteBatch(ctx, []string{
		`INSERT INTO main.clientes (id, nome) VALUES (1, 'a')`,
		`INSERT INTO main.clientes (id, nome) VALUES (7, 'O''Brien')`,
	}))

	got, found, err := a.MaxIntValue(ctx, MainSchema, "clientes", "id")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), got)

	exists, err := a.TableExists(ctx, MainSchema, "clientes")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = a.TableExists(ctx, "", "pedidos")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdapter_BatchRollsBack(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	require.NoError(t, a.ExecuteBatch(ctx, []string{`CREATE TABLE t (id INTEGER PRIMARY KEY)`}))

	err := a.ExecuteBatch(ctx, []string{
		`INSERT INTO t (id) VALUES (1)`,
		`INSERT INTO t (id) VALUES (1)`,
	})
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.Contains(t, err.Error(), "statement 2")
	assert.Equal(t, 2, errs.StatementOf(err))

	_, found, err := a.MaxIntValue(ctx, MainSchema, "t", "id")
	require.NoError(t, err)
	assert.False(t, found, "first insert must have been rolled back")
}

func TestAdapter_MissingTable(t *testing.T) {
	a := openTemp(t)
	_, _, err := a.MaxIntValue(context.Background(), MainSchema, "ghost", "id")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestConnect_NeedsPath(t *testing.T) {
	err := New().Connect(context.Background(), common.ConnectionParams{Provider: "sqlite"})
	assert.True(t, errs.IsInvalidInput(err))
}
