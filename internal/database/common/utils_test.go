package common

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSQLStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "generated inserts",
			in: "INSERT INTO public.t (id, nome) VALUES (1, 'a');\n" +
				"INSERT INTO public.t (id, nome) VALUES (2, 'b');",
			want: []string{
				"INSERT INTO public.t (id, nome) VALUES (1, 'a')",
				"INSERT INTO public.t (id, nome) VALUES (2, 'b')",
			},
		},
		{
			name: "semicolon inside literal",
			in:   "INSERT INTO t (s) VALUES ('a;b');INSERT INTO t (s) VALUES ('c')",
			want: []string{"INSERT INTO t (s) VALUES ('a;b')", "INSERT INTO t (s) VALUES ('c')"},
		},
		{
			name: "doubled quote inside literal",
			in:   "INSERT INTO t (s) VALUES ('it''s; fine');",
			want: []string{"INSERT INTO t (s) VALUES ('it''s; fine')"},
		},
		{
			name: "quoted identifiers",
			in:   `INSERT INTO "od;d" (x) VALUES (1); INSERT INTO ` + "`we;ird`" + ` (x) VALUES (2);`,
			want: []string{`INSERT INTO "od;d" (x) VALUES (1)`, "INSERT INTO `we;ird` (x) VALUES (2)"},
		},
		{
			name: "comments and blanks",
			in:   "-- seed data\n;;\n  INSERT INTO t VALUES (1);\n\n;",
			want: []string{"INSERT INTO t VALUES (1)"},
		},
		{
			name: "trailing comment",
			in:   "INSERT INTO t VALUES (1); -- first row\nINSERT INTO t VALUES (2) -- second; row\n;",
			want: []string{"INSERT INTO t VALUES (1)", "INSERT INTO t VALUES (2)"},
		},
		{
			name: "dashes inside a multi-line literal",
			in:   "INSERT INTO t (s) VALUES ('line one\n-- not a comment; still text');\nINSERT INTO t (s) VALUES ('b');",
			want: []string{
				"INSERT INTO t (s) VALUES ('line one\n-- not a comment; still text')",
				"INSERT INTO t (s) VALUES ('b')",
			},
		},
		{
			name: "empty",
			in:   "  \n ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSQLStatements(tt.in))
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"pedidos"`, QuoteIdent("pedidos", '"'))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`, '"'))
	assert.Equal(t, "`a``b`", QuoteIdent("a`b", '`'))
}

func TestConnectionParams(t *testing.T) {
	p := ConnectionParams{
		Host:           "db.local",
		Port:           6543,
		DBName:         "loja",
		User:           "seed",
		Password:       "p@ss word",
		SSLMode:        "disable",
		ConnectTimeout: 5 * time.Second,
	}

	u, err := url.Parse(p.PostgresURL())
	require.NoError(t, err)
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pass)
	assert.Equal(t, "db.local:6543", u.Host)
	assert.Equal(t, "/loja", u.Path)
	assert.Equal(t, "connect_timeout=5&sslmode=disable", u.RawQuery)

	assert.Equal(t, "localhost:3306", ConnectionParams{}.Address(3306))
	assert.NotContains(t, p.Redacted(), "p@ss")

	assert.Equal(t, ProviderPostgres, NormalizeProvider(""))
	assert.Equal(t, ProviderPostgres, NormalizeProvider("postgresql"))
	assert.Equal(t, ProviderMySQL, NormalizeProvider("mariadb"))
	assert.Equal(t, ProviderSQLite, NormalizeProvider("sqlite3"))
	assert.Equal(t, "oracle", NormalizeProvider("oracle"))
}
