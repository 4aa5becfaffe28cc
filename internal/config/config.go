package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/spf13/viper"
)

const (
	EnvPrefix          = "DICTSEED"
	FileName           = "dictseed.config.json"
	DefaultPasswordEnv = "DICTSEED_DB_PASSWORD"
	DefaultRows        = 10
)

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
	Rows     int      `json:"rows" mapstructure:"rows"`
	Seed     int64    `json:"seed,omitempty" mapstructure:"seed"`
	Log      Log      `json:"log" mapstructure:"log"`
}

type Database struct {
	Provider    string `json:"provider" mapstructure:"provider"`
	Host        string `json:"host,omitempty" mapstructure:"host"`
	Port        int    `json:"port,omitempty" mapstructure:"port"`
	DBName      string `json:"dbname,omitempty" mapstructure:"dbname"`
	User        string `json:"user,omitempty" mapstructure:"user"`
	PasswordEnv string `json:"password_env" mapstructure:"password_env"`
	SSLMode     string `json:"sslmode,omitempty" mapstructure:"sslmode"`
	// Go duration, e.g. "10s"
	ConnectTimeout string `json:"connect_timeout,omitempty" mapstructure:"connect_timeout"`
	// Overrides the dictionary's schema name
	Schema string `json:"schema,omitempty" mapstructure:"schema"`
}

type Log struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: Database{
			Provider:       common.ProviderPostgres,
			Host:           "localhost",
			Port:           5432,
			PasswordEnv:    DefaultPasswordEnv,
			SSLMode:        "disable",
			ConnectTimeout: "10s",
		},
		Rows: DefaultRows,
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// SetDefaults registers every config key on v. Unmarshal only consults the
// environment for keys viper already knows, so a key missing here cannot be
// set through DICTSEED_* variables. Connection fields default to empty; the
// drivers pick their own host and port.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("database.provider", d.Database.Provider)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password_env", d.Database.PasswordEnv)
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.connect_timeout", d.Database.ConnectTimeout)
	v.SetDefault("database.schema", "")
	v.SetDefault("rows", d.Rows)
	v.SetDefault("seed", 0)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// ConfigureEnv maps DICTSEED_<SECTION>_<KEY> variables onto v.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the config from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to unmarshal config", err)
	}

	cfg.Database.Provider = common.NormalizeProvider(cfg.Database.Provider)
	if cfg.Database.PasswordEnv == "" {
		cfg.Database.PasswordEnv = DefaultPasswordEnv
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Provider {
	case common.ProviderPostgres, common.ProviderMySQL, common.ProviderSQLite:
	default:
		return errs.Newf(errs.ErrKindInvalidInput,
			"unsupported database provider: %s (supported: postgres, mysql, sqlite)", c.Database.Provider)
	}

	if c.Rows < 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "rows must be zero or more, got %d", c.Rows)
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return errs.Newf(errs.ErrKindInvalidInput, "invalid database port %d", c.Database.Port)
	}
	if _, err := c.connectTimeout(); err != nil {
		return err
	}
	return nil
}

// HasDatabase reports whether enough is configured to reach a destination.
func (c *Config) HasDatabase() bool {
	return c.Database.DBName != ""
}

// ConnectionParams assembles the destination parameters. The password is
// read from the environment variable named by database.password_env.
func (c *Config) ConnectionParams() common.ConnectionParams {
	timeout, _ := c.connectTimeout()
	return common.ConnectionParams{
		Provider:       c.Database.Provider,
		Host:           c.Database.Host,
		Port:           c.Database.Port,
		DBName:         c.Database.DBName,
		User:           c.Database.User,
		Password:       os.Getenv(c.Database.PasswordEnv),
		SSLMode:        c.Database.SSLMode,
		ConnectTimeout: timeout,
	}
}

func (c *Config) connectTimeout() (time.Duration, error) {
	if c.Database.ConnectTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Database.ConnectTimeout)
	if err != nil || d < 0 {
		return 0, errs.Newf(errs.ErrKindInvalidInput, "invalid connect_timeout %q", c.Database.ConnectTimeout)
	}
	return d, nil
}

// WriteDefault writes a starter config for provider to path. An existing
// file is left alone unless force is set.
func WriteDefault(path, provider string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errs.Newf(errs.ErrKindInvalidInput, "%s already exists", path)
	}

	cfg := DefaultConfig()
	cfg.Database.Provider = common.NormalizeProvider(provider)
	switch cfg.Database.Provider {
	case common.ProviderMySQL:
		cfg.Database.Port = 3306
		cfg.Database.SSLMode = "disable"
	case common.ProviderSQLite:
		cfg.Database.Host = ""
		cfg.Database.Port = 0
		cfg.Database.SSLMode = ""
		cfg.Database.DBName = "dictseed.db"
		cfg.Database.Schema = "main"
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errs.Wrap(errs.ErrKindPermissionDenied, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
