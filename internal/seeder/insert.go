package seeder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rana718/dictseed/internal/schema"
)

// GenerateInsertSQL renders one INSERT per generated row, tables in
// generation order and columns in declared order. The output depends only
// on its arguments.
func GenerateInsertSQL(meta *schema.Metadata, data *Dataset) string {
	var stmts []string

	for _, tableName := range data.Tables() {
		table, ok := meta.Table(tableName)
		if !ok {
			continue
		}
		columns := table.ColumnNames()
		prefix := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (", meta.Name, tableName, strings.Join(columns, ", "))

		for _, row := range data.Rows(tableName) {
			values := make([]string, len(columns))
			for i, col := range columns {
				values[i] = formatValue(row[col])
			}
			stmts = append(stmts, prefix+strings.Join(values, ", ")+");")
		}
	}

	return strings.Join(stmts, "\n")
}

// formatValue renders a literal. Strings are single-quoted with embedded
// quotes doubled; other scalars use their plain textual form.
func formatValue(val any) string {
	if val == nil {
		return "NULL"
	}
	switch v := val.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
