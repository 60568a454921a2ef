// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the configuration file.
const (
	EnvLogLevel      = "INOTEBOOK_LOG_LEVEL"
	EnvDevMode       = "INOTEBOOK_DEV_MODE"
	EnvHTTPAddress   = "INOTEBOOK_HTTP_ADDRESS"
	EnvDBDriver      = "INOTEBOOK_DB_DRIVER"
	EnvDBDSN         = "INOTEBOOK_DB_DSN"
	EnvSigningKey    = "INOTEBOOK_SIGNING_KEY" //nolint:gosec // name, not a credential
	EnvTokenValidity = "INOTEBOOK_TOKEN_VALIDITY"
)

// Config is the process-wide configuration, resolved once at startup.
type Config struct {
	LogLevel       string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	DevMode        bool          `yaml:"dev_mode"`
	HTTPAddress    string        `yaml:"http_address" validate:"required,hostname_port"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	Metrics        Metrics       `yaml:"metrics"`
	Database       Database      `yaml:"database"`
	Auth           Auth          `yaml:"auth"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"omitempty,startswith=/"`
}

// Database selects and configures the backing store.
type Database struct {
	Driver       string `yaml:"driver" validate:"oneof=sqlite mysql"`
	DSN          string `yaml:"dsn" validate:"required"`
	MaxOpenConns int    `yaml:"max_open_conns" validate:"gte=0"`
}

// Auth configures credential hashing and bearer tokens.
type Auth struct {
	// SigningKey signs bearer tokens. It may only be empty in dev mode, where
	// an insecure development key is substituted.
	SigningKey    string        `yaml:"signing_key"`
	TokenValidity time.Duration `yaml:"token_validity" validate:"gt=0"`
	BcryptCost    int           `yaml:"bcrypt_cost" validate:"gte=10,lte=31"`
}

// LogValue satisfies [slog.LogValuer], omitting the signing key and DSN which
// may carry credentials.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("log_level", c.LogLevel),
		slog.Bool("dev_mode", c.DevMode),
		slog.String("http_address", c.HTTPAddress),
		slog.Duration("request_timeout", c.RequestTimeout),
		slog.Bool("metrics_enabled", c.Metrics.Enabled),
		slog.String("database_driver", c.Database.Driver),
		slog.Bool("signing_key_set", c.Auth.SigningKey != ""),
		slog.Duration("token_validity", c.Auth.TokenValidity),
		slog.Int("bcrypt_cost", c.Auth.BcryptCost),
	)
}

// ErrSigningKeyRequired is returned when no signing key is configured outside
// of dev mode.
var ErrSigningKeyRequired = errors.New("auth.signing_key is required unless dev_mode is enabled")

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath is where the configuration file is looked up by default.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "inotebook.yaml")
}

// Default returns a version of the config with all default values populated.
// Note that this configuration is _not_ valid outside of dev mode, as the
// signing key must be set by the user.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		HTTPAddress:    "localhost:3000",
		RequestTimeout: 10 * time.Second,
		Metrics: Metrics{
			Path: "/metrics",
		},
		Database: Database{
			Driver: "sqlite",
			DSN:    filepath.Join(xdg.DataHome, "inotebook", "db.sqlite"),
		},
		Auth: Auth{
			TokenValidity: 48 * time.Hour,
			BcryptCost:    10,
		},
	}
}

// Load reads a YAML configuration file from path, merges it over the
// defaults, applies environment overrides (including a .env file in the
// working directory, if any), and validates the result. A missing file is not
// an error; the defaults and environment are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()
	bytes, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults and environment only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(bytes, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
		}
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	if err = applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed. The
// file is only readable by the owner since it may contain the signing key.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil { //nolint:mnd // owner rwx access
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd // owner rw access
		return fmt.Errorf("failed to write config file to %s: %w", path, err)
	}
	return nil
}

// Validate checks the config for completeness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Auth.SigningKey == "" && !c.DevMode {
		return fmt.Errorf("config validation failed: %w", ErrSigningKeyRequired)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvLogLevel:    &cfg.LogLevel,
		EnvHTTPAddress: &cfg.HTTPAddress,
		EnvDBDriver:    &cfg.Database.Driver,
		EnvDBDSN:       &cfg.Database.DSN,
		EnvSigningKey:  &cfg.Auth.SigningKey,
	}
	for name, dst := range strs {
		if val, ok := lookup(name); ok {
			*dst = val
		}
	}
	if val, ok := lookup(EnvDevMode); ok {
		devMode, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDevMode, err)
		}
		cfg.DevMode = devMode
	}
	if val, ok := lookup(EnvTokenValidity); ok {
		validity, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTokenValidity, err)
		}
		cfg.Auth.TokenValidity = validity
	}
	return nil
}
