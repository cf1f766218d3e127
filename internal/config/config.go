// Package config loads the storefront client configuration.
//
// Values come from, in increasing priority: built in defaults, a YAML
// file, a .env file and REQX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/bluescreen10/reqx"
)

// Store drivers understood by OpenStore.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	BaseURL   string        `yaml:"base_url" env:"REQX_BASE_URL"`
	MockURL   string        `yaml:"mock_url" env:"REQX_MOCK_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"REQX_TIMEOUT"`
	TokenKey  string        `yaml:"token_key" env:"REQX_TOKEN_KEY"`
	LogLevel  string        `yaml:"log_level" env:"REQX_LOG_LEVEL"`
	AccessLog bool          `yaml:"access_log" env:"REQX_ACCESS_LOG"`
	Store     StoreConfig   `yaml:"store"`
}

// StoreConfig selects the backend persisting the session token.
type StoreConfig struct {
	Driver        string `yaml:"driver" env:"REQX_STORE_DRIVER"`
	Path          string `yaml:"path" env:"REQX_STORE_PATH"`
	DSN           string `yaml:"dsn" env:"REQX_STORE_DSN"`
	RedisAddr     string `yaml:"redis_addr" env:"REQX_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REQX_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REQX_REDIS_DB"`
	Prefix        string `yaml:"prefix" env:"REQX_STORE_PREFIX"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		BaseURL:  reqx.DefaultBaseURL,
		Timeout:  reqx.DefaultTimeout,
		TokenKey: reqx.TokenKey,
		LogLevel: zerolog.LevelInfoValue,
		Store: StoreConfig{
			Driver: DriverMemory,
		},
	}
}

// Load builds the configuration from the YAML file at path, the given
// env files (".env" when none) and the environment. A missing file is
// not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", f, err)
		}
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := checkURL("base_url", c.BaseURL); err != nil {
		return err
	}
	if c.MockURL != "" {
		if err := checkURL("mock_url", c.MockURL); err != nil {
			return err
		}
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.TokenKey == "" {
		return errors.New("config: token_key must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level: %w", err)
	}

	return c.Store.Validate()
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute url, got %q", name, raw)
	}
	return nil
}

// Validate checks the settings required by the selected driver.
func (s StoreConfig) Validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if s.Path == "" {
			return fmt.Errorf("config: store driver %q requires a path", s.Driver)
		}
	case DriverRedis:
		if s.RedisAddr == "" {
			return errors.New("config: store driver \"redis\" requires redis_addr")
		}
	case DriverMySQL:
		if s.DSN == "" {
			return errors.New("config: store driver \"mysql\" requires a dsn")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", s.Driver)
	}
	return nil
}

// Logger returns a zerolog logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
