package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	UI      UIConfig      `mapstructure:"ui"`
}

// BackendConfig holds connection settings for the hosted backend.
type BackendConfig struct {
	URL       string `mapstructure:"url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Collector string `mapstructure:"collector"`
	PageSize  int    `mapstructure:"page_size"`
	// DemoPath points at a local sqlite database used when no backend URL
	// is configured (or when --demo is passed).
	DemoPath string `mapstructure:"demo_path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	ExportDir      string `mapstructure:"export_dir"`
}

// Load reads configuration from file and env. Env var overrides use prefix COLLECTDASH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.api_key_env", "COLLECTDASH_API_KEY")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.collector", "")
	v.SetDefault("backend.page_size", 100)
	v.SetDefault("backend.demo_path", filepath.Join(os.Getenv("HOME"), ".local", "share", "collectdash", "collectdash.db"))
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.export_dir", filepath.Join(os.Getenv("HOME"), "Downloads"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("COLLECTDASH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "collectdash"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("COLLECTDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Backend.PageSize <= 0 {
		c.Backend.PageSize = 100
	}
	return c, nil
}

// ResolveAPIKey returns the API key from the configured env var, falling back
// to the value stored in the config file.
func ResolveAPIKey(cfg Config) string {
	env := strings.TrimSpace(cfg.Backend.APIKeyEnv)
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return strings.TrimSpace(cfg.Backend.APIKey)
}
