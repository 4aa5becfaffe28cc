package common

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	ProviderPostgres = "postgres"
	ProviderMySQL    = "mysql"
	ProviderSQLite   = "sqlite"
)

// ConnectionParams describe the destination store. Password arrives in
// plain text; decrypting it is the caller's business.
type ConnectionParams struct {
	Provider       string
	Host           string
	Port           int
	DBName         string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// NormalizeProvider maps provider aliases to one of the Provider constants.
// Unknown names are returned unchanged.
func NormalizeProvider(provider string) string {
	switch provider {
	case "", "postgres", "postgresql", "pg":
		return ProviderPostgres
	case "mysql", "mariadb":
		return ProviderMySQL
	case "sqlite", "sqlite3":
		return ProviderSQLite
	default:
		return provider
	}
}

func (p ConnectionParams) Address(defaultPort int) string {
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// PostgresURL renders the params as a postgres:// connection URL.
func (p ConnectionParams) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   p.Address(5432),
		Path:   "/" + p.DBName,
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}

	q := url.Values{}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	if p.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(p.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted is safe to log.
func (p ConnectionParams) Redacted() string {
	if p.Provider == ProviderSQLite {
		return fmt.Sprintf("sqlite:%s", p.DBName)
	}
	return fmt.Sprintf("%s://%s@%s:%d/%s", NormalizeProvider(p.Provider), p.User, p.Host, p.Port, p.DBName)
}
