package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("COLLECTDASH_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.PageSize != 100 {
		t.Errorf("page_size = %d, want 100", cfg.Backend.PageSize)
	}
	if cfg.Backend.APIKeyEnv != "COLLECTDASH_API_KEY" {
		t.Errorf("api_key_env = %q, want %q", cfg.Backend.APIKeyEnv, "COLLECTDASH_API_KEY")
	}
	if cfg.Backend.URL != "" {
		t.Errorf("url = %q, want empty", cfg.Backend.URL)
	}
	if cfg.UI.DateFormat != "02/01/2006" {
		t.Errorf("date_format = %q, want %q", cfg.UI.DateFormat, "02/01/2006")
	}
	if cfg.UI.CurrencySymbol != "$" {
		t.Errorf("currency_symbol = %q, want %q", cfg.UI.CurrencySymbol, "$")
	}
	if cfg.Backend.DemoPath == "" {
		t.Error("demo_path should default under HOME")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	data := []byte(`
[backend]
url = "https://api.example.com"
collector = "ava"
page_size = 25

[ui]
currency_symbol = "£"
export_dir = "/tmp/exports"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COLLECTDASH_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "https://api.example.com" {
		t.Errorf("url = %q, want the file value", cfg.Backend.URL)
	}
	if cfg.Backend.Collector != "ava" {
		t.Errorf("collector = %q, want %q", cfg.Backend.Collector, "ava")
	}
	if cfg.Backend.PageSize != 25 {
		t.Errorf("page_size = %d, want 25", cfg.Backend.PageSize)
	}
	if cfg.UI.CurrencySymbol != "£" {
		t.Errorf("currency_symbol = %q, want %q", cfg.UI.CurrencySymbol, "£")
	}
	if cfg.UI.ExportDir != "/tmp/exports" {
		t.Errorf("export_dir = %q, want %q", cfg.UI.ExportDir, "/tmp/exports")
	}
	// File left the date format alone, so the default survives.
	if cfg.UI.DateFormat != "02/01/2006" {
		t.Errorf("date_format = %q, want the default", cfg.UI.DateFormat)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	data := []byte(`
[backend]
collector = "ava"
page_size = 25
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COLLECTDASH_CONFIG", path)
	t.Setenv("COLLECTDASH_BACKEND_PAGE_SIZE", "40")
	t.Setenv("COLLECTDASH_BACKEND_COLLECTOR", "mia")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.PageSize != 40 {
		t.Errorf("page_size = %d, want env override 40", cfg.Backend.PageSize)
	}
	if cfg.Backend.Collector != "mia" {
		t.Errorf("collector = %q, want env override %q", cfg.Backend.Collector, "mia")
	}
}

func TestLoadCoercesNonPositivePageSize(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[backend]\npage_size = -5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COLLECTDASH_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.PageSize != 100 {
		t.Errorf("page_size = %d, want coerced 100", cfg.Backend.PageSize)
	}
}

func TestResolveAPIKeyPrefersEnv(t *testing.T) {
	t.Setenv("COLLECTDASH_TEST_KEY", "from-env")
	cfg := Config{}
	cfg.Backend.APIKeyEnv = "COLLECTDASH_TEST_KEY"
	cfg.Backend.APIKey = "from-file"
	if got := ResolveAPIKey(cfg); got != "from-env" {
		t.Errorf("key = %q, want %q", got, "from-env")
	}
}

func TestResolveAPIKeyFallsBackToFile(t *testing.T) {
	t.Setenv("COLLECTDASH_TEST_KEY", "")
	cfg := Config{}
	cfg.Backend.APIKeyEnv = "COLLECTDASH_TEST_KEY"
	cfg.Backend.APIKey = "  from-file  "
	if got := ResolveAPIKey(cfg); got != "from-file" {
		t.Errorf("key = %q, want trimmed file value", got)
	}
}
