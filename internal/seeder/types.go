package seeder

import (
	"regexp"
	"strings"
)

type SeedConfig struct {
	Rows           int            // Default rows per table
	Tables         map[string]int // Per-table row counts
	Seed           int64          // Random seed; 0 picks one from the clock
	SkipUnresolved bool           // Skip cyclic tables instead of failing
}

// RowsFor returns the row count for a table.
func (c SeedConfig) RowsFor(table string) int {
	if n, ok := c.Tables[table]; ok {
		return n
	}
	return c.Rows
}

// Row maps column name to a generated scalar: int64, float64, string, bool or nil.
type Row map[string]any

// Dataset holds the generated rows of every table in generation order.
type Dataset struct {
	order []string
	rows  map[string][]Row
}

func NewDataset() *Dataset {
	return &Dataset{rows: make(map[string][]Row)}
}

func (d *Dataset) add(table string, rows []Row) {
	if _, exists := d.rows[table]; !exists {
		d.order = append(d.order, table)
	}
	d.rows[table] = rows
}

// Tables returns table names in generation order.
func (d *Dataset) Tables() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dataset) Rows(table string) []Row {
	return d.rows[table]
}

// Values returns every generated value of table.column, nulls excluded.
func (d *Dataset) Values(table, column string) []any {
	rows := d.rows[table]
	values := make([]any, 0, len(rows))
	for _, r := range rows {
		if v := r[column]; v != nil {
			values = append(values, v)
		}
	}
	return values
}

type typeFamily int

const (
	familyUnknown typeFamily = iota
	familyVarchar
	familyChar
	familyText
	familyInteger
	familyBigint
	familyNumeric
	familyUUID
	familyTimestamp
	familyDate
	familyBoolean
)

var typeAliases = map[string]typeFamily{
	"character varying":           familyVarchar,
	"varchar":                     familyVarchar,
	"character":                   familyChar,
	"char":                        familyChar,
	"bpchar":                      familyChar,
	"text":                        familyText,
	"integer":                     familyInteger,
	"int":                         familyInteger,
	"int4":                        familyInteger,
	"smallint":                    familyInteger,
	"int2":                        familyInteger,
	"bigint":                      familyBigint,
	"int8":                        familyBigint,
	"numeric":                     familyNumeric,
	"decimal":                     familyNumeric,
	"uuid":                        familyUUID,
	"timestamp without time zone": familyTimestamp,
	"timestamp with time zone":    familyTimestamp,
	"timestamp":                   familyTimestamp,
	"timestamptz":                 familyTimestamp,
	"date":                        familyDate,
	"boolean":                     familyBoolean,
	"bool":                        familyBoolean,
}

var typeModifier = regexp.MustCompile(`\s*\([^)]*\)`)

// classify maps a declared column type to its family. Modifiers such as
// "(255)" or "(6)" are ignored.
func classify(colType string) typeFamily {
	t := typeModifier.ReplaceAllString(strings.ToLower(colType), "")
	return typeAliases[strings.Join(strings.Fields(t), " ")]
}

func (f typeFamily) isCharacter() bool {
	return f == familyVarchar || f == familyChar || f == familyText
}

func (f typeFamily) isInteger() bool {
	return f == familyInteger || f == familyBigint
}

func (f typeFamily) isNumber() bool {
	return f.isInteger() || f == familyNumeric
}
