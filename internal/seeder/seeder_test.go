package seeder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/dictseed/internal/errs"
	"github.com/Rana718/dictseed/internal/logger"
	"github.com/Rana718/dictseed/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tabela1 = `{"nome_schema":"public","tabela1":{"columns":[{"column":"id","type":"integer","is_primary_key":true,"is_foreign_key":false,"nullable":"NO"},{"column":"nome","type":"text","is_primary_key":false,"is_foreign_key":false,"nullable":"YES"}],"depends_on":[]}}`

const loja = `
nome_schema: loja
pedidos:
  columns:
    - {column: id, type: integer, is_primary_key: true, nullable: "NO"}
    - {column: cliente_id, type: integer, is_foreign_key: true, nullable: "NO", references: {table: clientes, column: id}}
    - {column: valor, type: numeric, nullable: "NO", check_constraint: {expression: "(valor > 0)"}}
    - {column: status, type: character varying, length: 1, check_constraint: {expression: "((status)::text = ANY ((ARRAY['A'::character varying, 'C'::character varying])::text[]))"}}
    - {column: criado_em, type: timestamp without time zone, nullable: "NO"}
  depends_on: [clientes]
clientes:
  columns:
    - {column: id, type: integer, is_primary_key: true, nullable: "NO"}
    - {column: nome, type: character varying, length: 12, nullable: "NO"}
    - {column: codigo, type: uuid}
  depends_on: []
`

type fakeSource struct {
	values map[string]int64
	err    error
	calls  []string
}

func (f *fakeSource) MaxValue(_ context.Context, schemaName, table, column string) (int64, bool, error) {
	f.calls = append(f.calls, schemaName+"."+table+"."+column)
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.values[table+"."+column]
	return v, ok, nil
}

func mustParse(t *testing.T, doc string) *schema.Metadata {
	t.Helper()
	meta, err := schema.Parse([]byte(doc))
	require.NoError(t, err)
	return meta
}

func TestSeeder_Tabela1(t *testing.T) {
	meta := mustParse(t, tabela1)

	data, err := NewSeeder(SeedConfig{Rows: 2, Seed: 1}, nil).Generate(context.Background(), meta)
	require.NoError(t, err)

	rows := data.Rows("tabela1")
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, int64(2), rows[1]["id"])

	lines := strings.Split(GenerateInsertSQL(meta, data), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "INSERT INTO public.tabela1 (id, nome) VALUES (1, '"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "INSERT INTO public.tabela1 (id, nome) VALUES (2, '"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "');"))
}

func TestSeeder_Watermarks(t *testing.T) {
	meta := mustParse(t, tabela1)

	t.Run("continues above watermark", func(t *testing.T) {
		src := &fakeSource{values: map[string]int64{"tabela1.id": 100}}
		data, err := NewSeeder(SeedConfig{Rows: 3}, src).Generate(context.Background(), meta)
		require.NoError(t, err)

		var ids []any
		for _, r := range data.Rows("tabela1") {
			ids = append(ids, r["id"])
		}
		assert.Equal(t, []any{int64(101), int64(102), int64(103)}, ids)
		assert.Equal(t, []string{"public.tabela1.id"}, src.calls)
	})

	t.Run("empty table starts at one", func(t *testing.T) {
		src := &fakeSource{}
		data, err := NewSeeder(SeedConfig{Rows: 1}, src).Generate(context.Background(), meta)
		require.NoError(t, err)
		assert.Equal(t, int64(1), data.Rows("tabela1")[0]["id"])
	})

	t.Run("lookup failure is logged and ignored", func(t *testing.T) {
		buf := &bytes.Buffer{}
		ctx := logger.New(&logger.Config{Level: "warn", Format: "json", Output: buf}).WithContext(context.Background())

		src := &fakeSource{err: errors.New(`relation "public.tabela1" does not exist`)}
		data, err := NewSeeder(SeedConfig{Rows: 2}, src).Generate(ctx, meta)
		require.NoError(t, err)

		assert.Equal(t, int64(1), data.Rows("tabela1")[0]["id"])
		assert.Contains(t, buf.String(), "watermark lookup failed")
		assert.Contains(t, buf.String(), `"table":"tabela1"`)
	})
}

func TestSeedWatermarks_OnlyIntegerKeys(t *testing.T) {
	meta := mustParse(t, `{"nome_schema":"app","contas":{"columns":[
		{"column":"id","type":"uuid","is_primary_key":true},
		{"column":"saldo","type":"integer"}]},
	"eventos":{"columns":[{"column":"id","type":"bigint","is_primary_key":true}]}}`)

	src := &fakeSource{values: map[string]int64{"eventos.id": 7}}
	w := SeedWatermarks(context.Background(), src, meta, meta.TableNames())

	assert.Equal(t, []string{"app.eventos.id"}, src.calls)
	assert.Equal(t, int64(7), w.Get("eventos", "id"))
	assert.Equal(t, int64(0), w.Get("contas", "id"))
}

func TestSeeder_ForeignKeys(t *testing.T) {
	meta := mustParse(t, loja)
	cfg := SeedConfig{Rows: 20, Tables: map[string]int{"clientes": 3}, Seed: 5}

	data, err := NewSeeder(cfg, nil).Generate(context.Background(), meta)
	require.NoError(t, err)

	assert.Equal(t, []string{"clientes", "pedidos"}, data.Tables())
	require.Len(t, data.Rows("clientes"), 3)
	require.Len(t, data.Rows("pedidos"), 20)

	clientIDs := data.Values("clientes", "id")
	for _, row := range data.Rows("pedidos") {
		assert.Len(t, row, 5)
		assert.Contains(t, clientIDs, row["cliente_id"])
		assert.GreaterOrEqual(t, row["valor"], int64(1))
		assert.Contains(t, []any{"A", "C"}, row["status"])
		assert.NotNil(t, row["criado_em"])
	}
	for _, row := range data.Rows("clientes") {
		assert.Len(t, row["nome"], 12)
	}
}

func TestSeeder_ForeignKeyWithoutRows(t *testing.T) {
	meta := mustParse(t, loja)
	cfg := SeedConfig{Rows: 4, Tables: map[string]int{"clientes": 0}}

	data, err := NewSeeder(cfg, nil).Generate(context.Background(), meta)
	require.NoError(t, err)

	assert.Empty(t, data.Rows("clientes"))
	for _, row := range data.Rows("pedidos") {
		assert.Nil(t, row["cliente_id"])
	}
}

func TestSeeder_SelfReference(t *testing.T) {
	meta := mustParse(t, `{"categorias":{"columns":[
		{"column":"id","type":"integer","is_primary_key":true},
		{"column":"pai_id","type":"integer","is_foreign_key":true,"references":{"table":"categorias","column":"id"}}
	],"depends_on":["categorias"]}}`)

	data, err := NewSeeder(SeedConfig{Rows: 3}, nil).Generate(context.Background(), meta)
	require.NoError(t, err)

	for _, row := range data.Rows("categorias") {
		assert.Nil(t, row["pai_id"])
	}
}

func TestSeeder_NotNullFallback(t *testing.T) {
	meta := mustParse(t, `{"docs":{"columns":[
		{"column":"id","type":"integer","is_primary_key":true},
		{"column":"payload","type":"jsonb","nullable":"NO"},
		{"column":"extra","type":"jsonb","nullable":"YES"},
		{"column":"qtd","type":"integer","nullable":"NO","check_constraint":{"expression":"qtd BETWEEN 1 AND 3"}}
	]}}`)

	data, err := NewSeeder(SeedConfig{Rows: 5}, nil).Generate(context.Background(), meta)
	require.NoError(t, err)

	for _, row := range data.Rows("docs") {
		assert.Equal(t, "X", row["payload"])
		assert.Nil(t, row["extra"])
		assert.NotNil(t, row["qtd"])
		assert.Contains(t, row, "extra")
	}
}

func TestSeeder_Cycles(t *testing.T) {
	doc := `{"a":{"columns":[{"column":"id","type":"integer","is_primary_key":true}],"depends_on":["b"]},
		"b":{"columns":[{"column":"id","type":"integer","is_primary_key":true}],"depends_on":["a"]},
		"c":{"columns":[{"column":"id","type":"integer","is_primary_key":true}],"depends_on":[]}}`
	meta := mustParse(t, doc)

	_, err := NewSeeder(SeedConfig{Rows: 1}, nil).Generate(context.Background(), meta)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "a, b")

	data, err := NewSeeder(SeedConfig{Rows: 1, SkipUnresolved: true}, nil).Generate(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, data.Tables())
}

func TestSeeder_SameSeedSameSQL(t *testing.T) {
	meta := mustParse(t, loja)
	cfg := SeedConfig{Rows: 10, Seed: 2024}

	run := func() string {
		s := NewSeeder(cfg, nil)
		s.generator.now = func() time.Time { return fixedNow }
		data, err := s.Generate(context.Background(), meta)
		require.NoError(t, err)
		return GenerateInsertSQL(meta, data)
	}

	assert.Equal(t, run(), run())
}

func TestSeeder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeeder(SeedConfig{Rows: 1}, nil).Generate(ctx, mustParse(t, tabela1))
	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err))
}
