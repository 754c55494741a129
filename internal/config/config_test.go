package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8080",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		MaxUploadBytes:     10 << 20,
		RateLimitPerMinute: 30,
		AmountPlaces:       2,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			modify:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "upload limit too small",
			modify:      func(c *Config) { c.MaxUploadBytes = 10 },
			wantErr:     true,
			errorString: "invalid max upload size 10: must be at least 1024 bytes",
		},
		{
			name:        "upload limit too large",
			modify:      func(c *Config) { c.MaxUploadBytes = 200 << 20 },
			wantErr:     true,
			errorString: "must be at most 100 MiB",
		},
		{
			name:        "rate limit zero",
			modify:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1 request per minute",
		},
		{
			name:        "negative amount places",
			modify:      func(c *Config) { c.AmountPlaces = -1 },
			wantErr:     true,
			errorString: "invalid amount places -1: must be between 0 and 8",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud': must be one of [debug info warn error]",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml': must be one of [text json]",
		},
		{
			name:        "read timeout too short",
			modify:      func(c *Config) { c.ReadTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid read timeout 10ms: must be at least 1 second",
		},
		{
			name:        "shutdown timeout too long",
			modify:      func(c *Config) { c.ShutdownTimeout = time.Hour },
			wantErr:     true,
			errorString: "invalid shutdown timeout 1h0m0s: must be at most 10 minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want error containing %v", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	cfg.RateLimitPerMinute = -5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port", "invalid log format", "invalid rate limit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	keys := []string{"PORT", "MAX_UPLOAD_BYTES", "AMOUNT_PLACES", "RATE_LIMIT_PER_MINUTE",
		"LOG_LEVEL", "LOG_FORMAT", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT"}

	t.Run("default values", func(t *testing.T) {
		for _, k := range keys {
			t.Setenv(k, "")
		}
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.MaxUploadBytes != 10<<20 {
			t.Errorf("Load() MaxUploadBytes = %v, want 10 MiB", cfg.MaxUploadBytes)
		}
		if cfg.AmountPlaces != 2 {
			t.Errorf("Load() AmountPlaces = %v, want 2", cfg.AmountPlaces)
		}
		if cfg.RateLimitPerMinute != 30 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 30", cfg.RateLimitPerMinute)
		}
		if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
			t.Errorf("Load() log = %v/%v, want info/text", cfg.LogLevel, cfg.LogFormat)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults must validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("MAX_UPLOAD_BYTES", "2048")
		t.Setenv("AMOUNT_PLACES", "4")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("READ_TIMEOUT", "45s")

		cfg := Load()

		if cfg.Port != "9090" || cfg.Addr() != ":9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.MaxUploadBytes != 2048 {
			t.Errorf("Load() MaxUploadBytes = %v, want 2048", cfg.MaxUploadBytes)
		}
		if cfg.AmountPlaces != 4 {
			t.Errorf("Load() AmountPlaces = %v, want 4", cfg.AmountPlaces)
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
			t.Errorf("Load() log = %v/%v, want debug/json", cfg.LogLevel, cfg.LogFormat)
		}
		if cfg.ReadTimeout != 45*time.Second {
			t.Errorf("Load() ReadTimeout = %v, want 45s", cfg.ReadTimeout)
		}
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
		t.Setenv("WRITE_TIMEOUT", "soon")

		cfg := Load()

		if cfg.RateLimitPerMinute != 30 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 30", cfg.RateLimitPerMinute)
		}
		if cfg.WriteTimeout != 30*time.Second {
			t.Errorf("Load() WriteTimeout = %v, want 30s", cfg.WriteTimeout)
		}
	})
}
