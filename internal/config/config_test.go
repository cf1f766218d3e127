package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx"
	"github.com/bluescreen10/reqx/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BaseURL != reqx.DefaultBaseURL {
		t.Fatalf("expected '%s' got '%s'", reqx.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout != reqx.DefaultTimeout {
		t.Fatalf("expected '%v' got '%v'", reqx.DefaultTimeout, cfg.Timeout)
	}
	if cfg.Store.Driver != config.DriverMemory {
		t.Fatalf("expected '%s' got '%s'", config.DriverMemory, cfg.Store.Driver)
	}
	if cfg.TokenKey != reqx.TokenKey {
		t.Fatalf("expected '%s' got '%s'", reqx.TokenKey, cfg.TokenKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t)); err != nil {
		t.Fatalf("expected no error got '%v'", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "reqx.yaml", `
base_url: https://shop.example.com/api/
mock_url: http://localhost:4000/mock/
timeout: 2s
log_level: debug
access_log: true
store:
  driver: file
  path: /tmp/reqx.json
`)

	cfg, err := config.Load(path, noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BaseURL != "https://shop.example.com/api/" {
		t.Fatalf("expected '%s' got '%s'", "https://shop.example.com/api/", cfg.BaseURL)
	}
	if cfg.MockURL != "http://localhost:4000/mock/" {
		t.Fatalf("expected '%s' got '%s'", "http://localhost:4000/mock/", cfg.MockURL)
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("expected '%v' got '%v'", 2*time.Second, cfg.Timeout)
	}
	if !cfg.AccessLog {
		t.Fatal("expected access log to be enabled")
	}
	if cfg.Store.Driver != config.DriverFile || cfg.Store.Path != "/tmp/reqx.json" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "reqx.yaml", "base_url: [unclosed")
	if _, err := config.Load(path, noEnvFile(t)); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEnvironmentOverridesYAML(t *testing.T) {
	path := writeFile(t, "reqx.yaml", "timeout: 2s\n")
	t.Setenv("REQX_TIMEOUT", "250ms")
	t.Setenv("REQX_STORE_DRIVER", "redis")
	t.Setenv("REQX_REDIS_ADDR", "localhost:6379")
	t.Setenv("REQX_REDIS_DB", "3")

	cfg, err := config.Load(path, noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("expected '%v' got '%v'", 250*time.Millisecond, cfg.Timeout)
	}
	if cfg.Store.Driver != config.DriverRedis {
		t.Fatalf("expected '%s' got '%s'", config.DriverRedis, cfg.Store.Driver)
	}
	if cfg.Store.RedisDB != 3 {
		t.Fatalf("expected '3' got '%d'", cfg.Store.RedisDB)
	}
}

func TestEnvFile(t *testing.T) {
	// godotenv never overrides variables already present in the process.
	os.Unsetenv("REQX_MOCK_URL")
	t.Cleanup(func() { os.Unsetenv("REQX_MOCK_URL") })

	env := writeFile(t, "test.env", "REQX_MOCK_URL=http://127.0.0.1:9999/mock/\n")

	cfg, err := config.Load("", env)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.MockURL != "http://127.0.0.1:9999/mock/" {
		t.Fatalf("expected '%s' got '%s'", "http://127.0.0.1:9999/mock/", cfg.MockURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"relative base url", func(c *config.Config) { c.BaseURL = "/api" }},
		{"relative mock url", func(c *config.Config) { c.MockURL = "mock" }},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }},
		{"empty token key", func(c *config.Config) { c.TokenKey = "" }},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }},
		{"unknown driver", func(c *config.Config) { c.Store.Driver = "etcd" }},
		{"file without path", func(c *config.Config) { c.Store.Driver = config.DriverFile }},
		{"sqlite without path", func(c *config.Config) { c.Store.Driver = config.DriverSQLite }},
		{"redis without addr", func(c *config.Config) { c.Store.Driver = config.DriverRedis }},
		{"mysql without dsn", func(c *config.Config) { c.Store.Driver = config.DriverMySQL }},
	}

	if err := config.Default().Validate(); err != nil {
		t.Fatalf("expected defaults to be valid got '%v'", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("expected info to be filtered got '%s'", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn to be written got '%s'", buf.String())
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	tests := []config.StoreConfig{
		{Driver: config.DriverMemory},
		{Driver: config.DriverFile, Path: filepath.Join(dir, "state", "reqx.json")},
		{Driver: config.DriverSQLite, Path: filepath.Join(dir, "reqx.db")},
	}

	for _, sc := range tests {
		t.Run(sc.Driver, func(t *testing.T) {
			ctx := context.Background()
			store, closer, err := config.OpenStore(ctx, sc, zerolog.Nop())
			if err != nil {
				t.Fatal(err)
			}
			defer closer.Close()

			st := reqx.NewStorage(store)
			if err := st.SetToken(ctx, "Bearer abc"); err != nil {
				t.Fatal(err)
			}
			if got := st.Token(ctx); got != "Bearer abc" {
				t.Fatalf("expected '%s' got '%s'", "Bearer abc", got)
			}
		})
	}
}

func TestOpenStoreInvalid(t *testing.T) {
	_, _, err := config.OpenStore(context.Background(), config.StoreConfig{Driver: "etcd"}, zerolog.Nop())
	if err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
