package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"croracle/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CRORACLE_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CRORACLE_TEST_VALUE", "")
	os.Unsetenv("CRORACLE_TEST_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("CRORACLE_TEST_VALUE"); got != "from-file" {
		t.Fatalf("CRORACLE_TEST_VALUE = %q", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file must be ignored: %v", err)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_FORMAT", "")
	if _, err := LoadAndValidateConfig(); err != nil {
		t.Fatalf("defaults: %v", err)
	}

	t.Setenv("PORT", "nope")
	if _, err := LoadAndValidateConfig(); err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Fatalf("expected port error, got %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, &buf)
	logger.Debug("hello")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"level":"DEBUG"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}
