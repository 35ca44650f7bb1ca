package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		ShutdownTimeout:    30 * time.Second,
		StorageBackend:     BackendSQLite,
		SQLiteDBPath:       "./data/test.db",
		StorageKey:         "pf_tx_v1",
		CurrencySymbol:     "₱",
		Locale:             "en",
		RateLimitPerMinute: 60,
		LogLevel:           "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid sqlite backend config",
			mutate: func(*Config) {},
		},
		{
			name:   "valid memory backend ignores db path",
			mutate: func(c *Config) { c.StorageBackend = BackendMemory; c.SQLiteDBPath = "" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.StorageBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid storage backend 'sheets'",
		},
		{
			name:        "sqlite without path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "blank storage key",
			mutate:      func(c *Config) { c.StorageKey = "  " },
			wantErr:     true,
			errorString: "storage key cannot be empty",
		},
		{
			name:        "bad locale",
			mutate:      func(c *Config) { c.Locale = "!!" },
			wantErr:     true,
			errorString: "invalid locale '!!'",
		},
		{
			name:        "zero rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "bad trusted proxy",
			mutate:      func(c *Config) { c.TrustedProxies = []string{"203.0.113.0/24", "edge"} },
			wantErr:     true,
			errorString: "invalid trusted proxy 'edge'",
		},
		{
			name:        "short shutdown timeout",
			mutate:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "x"
	cfg.StorageKey = ""
	cfg.LogLevel = "nope"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:\n- ") {
		t.Fatalf("unexpected prefix: %q", msg)
	}
	if got := strings.Count(msg, "\n- "); got != 3 {
		t.Fatalf("expected 3 problems, got %d in %q", got, msg)
	}
}

func TestConfig_ValidateDBPathIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	cfg.SQLiteDBPath = filepath.Join(file, "pf.db")
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "is not a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{"PORT", "STORAGE_BACKEND", "SQLITE_DB_PATH", "STORAGE_KEY", "CURRENCY_SYMBOL",
		"LOCALE", "SEED_SAMPLE_DATA", "RATE_LIMIT_PER_MINUTE", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "TRUSTED_PROXIES"}
	for _, k := range keys {
		t.Setenv(k, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()
		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.StorageBackend != BackendSQLite {
			t.Errorf("Load() StorageBackend = %v, want sqlite", cfg.StorageBackend)
		}
		if cfg.SQLiteDBPath != "./data/pftracker.db" {
			t.Errorf("Load() SQLiteDBPath = %v", cfg.SQLiteDBPath)
		}
		if cfg.StorageKey != "pf_tx_v1" {
			t.Errorf("Load() StorageKey = %v", cfg.StorageKey)
		}
		if cfg.CurrencySymbol != "₱" || cfg.Locale != "en" {
			t.Errorf("Load() display = %q %q", cfg.CurrencySymbol, cfg.Locale)
		}
		if cfg.SeedSampleData {
			t.Errorf("Load() SeedSampleData should default to false")
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v", cfg.RateLimitPerMinute)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v", cfg.ShutdownTimeout)
		}
		if len(cfg.TrustedProxies) != 0 {
			t.Errorf("Load() TrustedProxies = %v, want none", cfg.TrustedProxies)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("STORAGE_BACKEND", "memory")
		t.Setenv("STORAGE_KEY", "pf_tx_v2")
		t.Setenv("CURRENCY_SYMBOL", "$")
		t.Setenv("LOCALE", "en-US")
		t.Setenv("SEED_SAMPLE_DATA", "true")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
		t.Setenv("SHUTDOWN_TIMEOUT", "5s")
		t.Setenv("TRUSTED_PROXIES", " 203.0.113.0/24, ,2001:db8::/32")

		cfg := Load()
		if cfg.Port != "9090" || cfg.Addr() != ":9090" {
			t.Errorf("Load() Port = %v", cfg.Port)
		}
		if cfg.StorageBackend != BackendMemory {
			t.Errorf("Load() StorageBackend = %v", cfg.StorageBackend)
		}
		if cfg.StorageKey != "pf_tx_v2" || cfg.CurrencySymbol != "$" || cfg.Locale != "en-US" {
			t.Errorf("Load() = %+v", cfg)
		}
		if !cfg.SeedSampleData || cfg.RateLimitPerMinute != 5 || cfg.ShutdownTimeout != 5*time.Second {
			t.Errorf("Load() = %+v", cfg)
		}
		if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "203.0.113.0/24" || cfg.TrustedProxies[1] != "2001:db8::/32" {
			t.Errorf("Load() TrustedProxies = %q", cfg.TrustedProxies)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
		t.Setenv("SEED_SAMPLE_DATA", "maybe")
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")

		cfg := Load()
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60 (default for invalid input)", cfg.RateLimitPerMinute)
		}
		if cfg.SeedSampleData {
			t.Errorf("Load() SeedSampleData should fall back to false")
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
	})
}
