package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g.
// POWERGEN_DATABASE__HOST=db sets database.host.
const EnvPrefix = "POWERGEN_"

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Schema   SchemaConfig   `koanf:"schema"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Logging  LoggingConfig  `koanf:"logging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	MaxDecodedMB  int    `koanf:"max_decoded_mb"` // after Content-Encoding is removed
	Mode          string `koanf:"mode"`           // debug | release
}

// DatabaseConfig accepts either a full DSN or its parts. DSN wins when set.
type DatabaseConfig struct {
	DSN          string      `koanf:"dsn"`
	Host         string      `koanf:"host"`
	Port         int         `koanf:"port"`
	Name         string      `koanf:"name"`
	User         string      `koanf:"user"`
	Password     string      `koanf:"password"`
	SSLMode      string      `koanf:"sslmode"`
	MaxOpenConns int         `koanf:"max_open_conns"`
	MaxIdleConns int         `koanf:"max_idle_conns"`
	AutoMigrate  bool        `koanf:"auto_migrate"`
	Retry        RetryConfig `koanf:"retry"`
}

// RetryConfig bounds the exponential backoff applied to connection failures.
type RetryConfig struct {
	Attempts int           `koanf:"attempts"`
	MinWait  time.Duration `koanf:"min_wait"`
	MaxWait  time.Duration `koanf:"max_wait"`
}

// SchemaConfig points at a directory of source definitions replacing the
// built-in ones. Empty uses the definitions compiled into the binary.
type SchemaConfig struct {
	Dir string `koanf:"dir"`
}

type IngestConfig struct {
	ReportDir string `koanf:"report_dir"` // empty disables automatic reports
	Strict    bool   `koanf:"strict"`
	Workers   int    `koanf:"workers"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
}

// EffectiveDSN returns the configured DSN or builds one from its parts.
func (c DatabaseConfig) EffectiveDSN() string {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.MaxDecodedMB < c.Server.MaxBodySizeMB {
		return fmt.Errorf("server.max_decoded_mb must be >= server.max_body_size_mb")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		if strings.TrimSpace(c.Database.Host) == "" {
			return fmt.Errorf("database.dsn or database.host is required")
		}
		if strings.TrimSpace(c.Database.Name) == "" {
			return fmt.Errorf("database.name is required when database.dsn is empty")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database.port %d (must be 1-65535)", c.Database.Port)
		}
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Retry.Attempts <= 0 {
		return fmt.Errorf("database.retry.attempts must be > 0")
	}
	if c.Database.Retry.MinWait <= 0 {
		return fmt.Errorf("database.retry.min_wait must be > 0")
	}
	if c.Database.Retry.MaxWait < c.Database.Retry.MinWait {
		return fmt.Errorf("database.retry.max_wait must be >= database.retry.min_wait")
	}

	if c.Ingest.Workers <= 0 {
		return fmt.Errorf("ingest.workers must be > 0")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q (must be debug, info, warn or error)", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q (must be text or json)", c.Logging.Format)
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}

	return nil
}

// Load parses config from defaults, then the optional file, then env, and validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 64,
		"server.max_decoded_mb":   1024,
		"server.mode":             "release",
		"database.dsn":            "",
		"database.host":           "localhost",
		"database.port":           5432,
		"database.name":           "power_generation",
		"database.user":           "postgres",
		"database.password":       "",
		"database.sslmode":        "disable",
		"database.max_open_conns": 10,
		"database.max_idle_conns": 5,
		"database.auto_migrate":   false,
		"database.retry.attempts": 3,
		"database.retry.min_wait": "1s",
		"database.retry.max_wait": "10s",
		"schema.dir":              "",
		"ingest.report_dir":       "",
		"ingest.strict":           false,
		"ingest.workers":          4,
		"logging.level":           "info",
		"logging.format":          "text",
		"metrics.enabled":         true,
		"metrics.namespace":       "powergen",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
