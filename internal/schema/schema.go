// Package schema holds the data-dictionary model consumed by the seeder:
// tables, their columns and the tables each one depends on.
//
// Documents are loaded and validated once here; everything downstream
// works on the typed structures and never re-checks them.
package schema

import (
	"fmt"
	"strings"

	"github.com/Rana718/dictseed/internal/errs"
)

// SchemaNameKey is the reserved top-level key naming the destination
// schema. It is never a table.
const SchemaNameKey = "nome_schema"

// DefaultSchemaName is used when a document carries no SchemaNameKey.
const DefaultSchemaName = "public"

const (
	NullableYes = "YES"
	NullableNo  = "NO"
)

type Metadata struct {
	Name   string
	Tables map[string]*Table

	// declaration order of Tables in the source document
	order []string
}

type Table struct {
	Columns   []Column `json:"columns" yaml:"columns"`
	DependsOn []string `json:"depends_on" yaml:"depends_on"`
}

type Column struct {
	Name            string           `json:"column" yaml:"column"`
	Type            string           `json:"type" yaml:"type"`
	Length          *int             `json:"length,omitempty" yaml:"length,omitempty"`
	Nullable        string           `json:"nullable" yaml:"nullable"`
	IsPrimaryKey    bool             `json:"is_primary_key" yaml:"is_primary_key"`
	IsForeignKey    bool             `json:"is_foreign_key" yaml:"is_foreign_key"`
	References      *Reference       `json:"references,omitempty" yaml:"references,omitempty"`
	CheckConstraint *CheckConstraint `json:"check_constraint,omitempty" yaml:"check_constraint,omitempty"`
	Description     string           `json:"description,omitempty" yaml:"description,omitempty"`
}

type Reference struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
}

type CheckConstraint struct {
	Expression string `json:"expression" yaml:"expression"`
}

// New returns empty metadata for the named schema.
func New(name string) *Metadata {
	if name == "" {
		name = DefaultSchemaName
	}
	return &Metadata{Name: name, Tables: make(map[string]*Table)}
}

// AddTable registers a table, keeping the order tables were added in.
// Re-adding a name replaces the definition but keeps its position.
func (m *Metadata) AddTable(name string, t *Table) {
	if _, exists := m.Tables[name]; !exists {
		m.order = append(m.order, name)
	}
	m.Tables[name] = t
}

// TableNames returns table names in declaration order.
func (m *Metadata) TableNames() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

func (m *Metadata) Table(name string) (*Table, bool) {
	t, ok := m.Tables[name]
	return t, ok
}

// ColumnNames returns the declared column order, which is also emission order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// IsNullable treats anything but an explicit "NO" as nullable.
func (c Column) IsNullable() bool {
	return !strings.EqualFold(c.Nullable, NullableNo)
}

// HasReference reports whether the column is a foreign key with a usable target.
func (c Column) HasReference() bool {
	return c.IsForeignKey && c.References != nil
}

// Constraint returns the check-constraint expression, or "".
func (c Column) Constraint() string {
	if c.CheckConstraint == nil {
		return ""
	}
	return c.CheckConstraint.Expression
}

// Validate checks the structural rules every downstream package relies on.
func (m *Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errs.New(errs.ErrKindInvalidInput, "schema name is empty")
	}
	if len(m.order) == 0 {
		return errs.New(errs.ErrKindInvalidInput, "schema declares no tables")
	}

	var problems []string
	for _, name := range m.order {
		problems = append(problems, m.Tables[name].validate(name)...)
	}
	if len(problems) > 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "invalid schema %q: %s", m.Name, strings.Join(problems, "; "))
	}
	return nil
}

func (t *Table) validate(name string) []string {
	if t == nil {
		return []string{fmt.Sprintf("table %s: empty definition", name)}
	}
	if len(t.Columns) == 0 {
		return []string{fmt.Sprintf("table %s: no columns", name)}
	}

	var problems []string
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		where := fmt.Sprintf("table %s column #%d", name, i+1)
		if strings.TrimSpace(c.Name) == "" {
			problems = append(problems, where+": missing name")
			continue
		}
		where = fmt.Sprintf("table %s column %s", name, c.Name)
		if seen[c.Name] {
			problems = append(problems, where+": declared twice")
		}
		seen[c.Name] = true

		if strings.TrimSpace(c.Type) == "" {
			problems = append(problems, where+": missing type")
		}
		switch strings.ToUpper(c.Nullable) {
		case "", NullableYes, NullableNo:
		default:
			problems = append(problems, fmt.Sprintf("%s: nullable must be YES or NO, got %q", where, c.Nullable))
		}
		if c.Length != nil && *c.Length < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative length %d", where, *c.Length))
		}
		if c.References != nil && (c.References.Table == "" || c.References.Column == "") {
			problems = append(problems, where+": references needs both table and column")
		}
	}
	return problems
}
