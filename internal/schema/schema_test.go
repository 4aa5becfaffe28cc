package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Rana718/dictseed/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleJSON = `{"nome_schema":"public","tabela1":{"columns":[
	{"column":"id","type":"integer","is_primary_key":true,"is_foreign_key":false,"nullable":"NO"},
	{"column":"nome","type":"text","is_primary_key":false,"is_foreign_key":false,"nullable":"YES"}
],"depends_on":[]}}`

func TestParse_JSON(t *testing.T) {
	meta, err := Parse([]byte(simpleJSON))
	require.NoError(t, err)

	assert.Equal(t, "public", meta.Name)
	assert.Equal(t, []string{"tabela1"}, meta.TableNames())

	table, ok := meta.Table("tabela1")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "nome"}, table.ColumnNames())
	assert.True(t, table.Columns[0].IsPrimaryKey)
	assert.False(t, table.Columns[0].IsNullable())
	assert.True(t, table.Columns[1].IsNullable())
	assert.Empty(t, table.DependsOn)
}

func TestParse_YAMLKeepsDeclarationOrder(t *testing.T) {
	doc := `
nome_schema: loja
pedidos:
  columns:
    - column: id
      type: integer
      is_primary_key: true
      nullable: "NO"
    - column: cliente_id
      type: integer
      is_foreign_key: true
      references: {table: clientes, column: id}
    - column: status
      type: character varying
      length: 10
      check_constraint:
        expression: "((status)::text = ANY ((ARRAY['A'::character varying, 'C'::character varying])::text[]))"
  depends_on: [clientes]
clientes:
  columns:
    - column: id
      type: integer
      is_primary_key: true
  depends_on: []
`
	meta, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "loja", meta.Name)
	assert.Equal(t, []string{"pedidos", "clientes"}, meta.TableNames())

	pedidos := meta.Tables["pedidos"]
	assert.Equal(t, []string{"clientes"}, pedidos.DependsOn)

	fk := pedidos.Columns[1]
	assert.True(t, fk.HasReference())
	assert.Equal(t, Reference{Table: "clientes", Column: "id"}, *fk.References)

	status := pedidos.Columns[2]
	require.NotNil(t, status.Length)
	assert.Equal(t, 10, *status.Length)
	assert.Contains(t, status.Constraint(), "ARRAY['A'")
}

func TestParse_DefaultSchemaName(t *testing.T) {
	meta, err := Parse([]byte(`{"t":{"columns":[{"column":"a","type":"text"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultSchemaName, meta.Name)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"not a mapping", `[1, 2]`},
		{"no tables", `{"nome_schema":"public"}`},
		{"table without columns", `{"t":{"columns":[]}}`},
		{"column without name", `{"t":{"columns":[{"type":"text"}]}}`},
		{"column without type", `{"t":{"columns":[{"column":"a"}]}}`},
		{"duplicate column", `{"t":{"columns":[{"column":"a","type":"text"},{"column":"a","type":"text"}]}}`},
		{"bad nullable", `{"t":{"columns":[{"column":"a","type":"text","nullable":"MAYBE"}]}}`},
		{"negative length", `{"t":{"columns":[{"column":"a","type":"text","length":-1}]}}`},
		{"half reference", `{"t":{"columns":[{"column":"a","type":"integer","is_foreign_key":true,"references":{"table":"u"}}]}}`},
		{"schema name not scalar", `{"nome_schema":["x"],"t":{"columns":[{"column":"a","type":"text"}]}}`},
		{"wrong field type", `{"t":{"columns":"nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestColumn_Helpers(t *testing.T) {
	c := Column{Name: "x", Type: "integer", IsForeignKey: true}
	assert.False(t, c.HasReference(), "foreign key without references is a plain column")
	assert.Equal(t, "", c.Constraint())
	assert.True(t, c.IsNullable())

	c.Nullable = "no"
	assert.False(t, c.IsNullable())
}

func TestAddTable_ReplaceKeepsPosition(t *testing.T) {
	meta := New("")
	meta.AddTable("a", &Table{})
	meta.AddTable("b", &Table{})
	meta.AddTable("a", &Table{DependsOn: []string{"b"}})

	assert.Equal(t, []string{"a", "b"}, meta.TableNames())
	assert.Equal(t, []string{"b"}, meta.Tables["a"].DependsOn)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dicionario.json")
	require.NoError(t, os.WriteFile(path, []byte(simpleJSON), 0644))

	meta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tabela1"}, meta.TableNames())

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
