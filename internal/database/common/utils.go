package common

import (
	"strings"
)

// ParseSQLStatements splits a script on ';' terminators that sit outside
// quoted literals and identifiers. "--" comments outside quotes are dropped
// up to the end of their line, and so are empty statements.
func ParseSQLStatements(sql string) []string {
	statements := make([]string, 0, strings.Count(sql, ";")+1)
	var cur strings.Builder

	flush := func() {
		if stmt := strings.TrimSpace(cur.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		cur.Reset()
	}

	for i := 0; i < len(sql); i++ {
		switch c := sql[i]; {
		case c == '\'' || c == '"' || c == '`':
			end := closingQuote(sql, i)
			cur.WriteString(sql[i:end])
			i = end - 1
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			if i < len(sql) {
				cur.WriteByte('\n')
			}
		case c == ';':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return statements
}

// closingQuote returns the index just past the quoted span opened at
// sql[start]. A doubled quote character is an escape. An unterminated span
// runs to the end of sql.
func closingQuote(sql string, start int) int {
	q := sql[start]
	for i := start + 1; i < len(sql); i++ {
		if sql[i] != q {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(sql)
}

// QuoteIdent quotes an identifier with the given quote character, doubling
// any embedded occurrence.
func QuoteIdent(name string, quote byte) string {
	q := string(quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}
