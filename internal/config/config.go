package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds all configuration for the gateway server.
type ServerConfig struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Presentation
	MaxPlayers  int    `yaml:"max_players"`
	Description string `yaml:"description"` // status response MOTD
	FaviconPath string `yaml:"favicon_path"` // PNG file, embedded as data URI in status response

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error (default: info)

	// Login flow
	ConnectionMode   string `yaml:"connection_mode"`   // "offline" or "velocity" (default: offline)
	VelocitySecret   string `yaml:"velocity_secret"`   // required when connection_mode is "velocity"
	CompressionLimit int    `yaml:"compression_limit"` // bytes (default: 256); not read by the login handler, which always negotiates a 256-byte threshold

	// Liveness
	KeepAlivePeriodSeconds int `yaml:"keep_alive_period_seconds"` // default: 8

	// Pipeline scheduler
	Workers        int     `yaml:"workers"`          // fixed worker pool size (default: 4)
	TickRate       float64 `yaml:"tick_rate"`         // ticks per second (default: 20)
	ReportTickStats bool   `yaml:"report_tick_stats"` // off the hot path, disabled by default

	// Optional Postgres-backed registry/audit store. Empty DSN falls back to
	// the in-memory static registry and a no-op audit sink.
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the registry and
// audit stores. Left zero-valued, Database.DSN() is empty and callers fall
// back to in-memory/no-op implementations.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns          int32  `yaml:"max_conns"`           // default: max(4, NumCPU)
	MinConns          int32  `yaml:"min_conns"`           // default: 0
	MaxConnLifetime   string `yaml:"max_conn_lifetime"`   // duration, e.g. "1h"
	MaxConnIdleTime   string `yaml:"max_conn_idle_time"`  // duration, e.g. "30m"
	HealthCheckPeriod string `yaml:"health_check_period"` // duration, e.g. "1m"
}

// DSN returns the PostgreSQL connection string, or "" if no host is configured.
func (d DatabaseConfig) DSN() string {
	if d.Host == "" {
		return ""
	}

	base := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)

	var params []string
	if d.MaxConns > 0 {
		params = append(params, fmt.Sprintf("pool_max_conns=%d", d.MaxConns))
	}
	if d.MinConns > 0 {
		params = append(params, fmt.Sprintf("pool_min_conns=%d", d.MinConns))
	}
	if d.MaxConnLifetime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_lifetime=%s", d.MaxConnLifetime))
	}
	if d.MaxConnIdleTime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_idle_time=%s", d.MaxConnIdleTime))
	}
	if d.HealthCheckPeriod != "" {
		params = append(params, fmt.Sprintf("pool_health_check_period=%s", d.HealthCheckPeriod))
	}

	if len(params) > 0 {
		return base + "&" + strings.Join(params, "&")
	}
	return base
}

// DefaultServerConfig returns a ServerConfig with the defaults the original
// hyperpumpkin server shipped with: offline mode, 4 workers, 20 ticks/sec.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		BindAddress:            "0.0.0.0",
		Port:                   25565,
		MaxPlayers:             10,
		Description:            "Hello, World!",
		LogLevel:               "info",
		ConnectionMode:         "offline",
		CompressionLimit:       256,
		KeepAlivePeriodSeconds: 8,
		Workers:                4,
		TickRate:               20,
	}
}

// LoadServerConfig loads the server config from a YAML file. If the file
// doesn't exist, returns defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// IsVelocity reports whether the server expects Velocity modern forwarding
// instead of vanilla offline-mode login.
func (c ServerConfig) IsVelocity() bool {
	return strings.EqualFold(c.ConnectionMode, "velocity")
}

// LoadFavicon reads FaviconPath and returns it as a
// "data:image/png;base64,…" string, the form spec.md section 6 requires in
// the status response. Returns "" without error if no path is configured.
func (c ServerConfig) LoadFavicon() (string, error) {
	if c.FaviconPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.FaviconPath)
	if err != nil {
		return "", fmt.Errorf("reading favicon %s: %w", c.FaviconPath, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
