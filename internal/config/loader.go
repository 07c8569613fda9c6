package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/jinzhu/copier"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Resolution order: defaults, then config file, then environment, then flags.
type Config struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr" env:"CRUDD_ADDR"`
	SchemaDir   string `json:"schema_dir" yaml:"schema_dir" toml:"schema_dir" env:"CRUDD_SCHEMA_DIR"`
	DatabaseURL string `json:"database_url" yaml:"database_url" toml:"database_url" env:"DATABASE_URL"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level" env:"CRUDD_LOG_LEVEL"`

	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" env:"CRUDD_MAX_BODY_BYTES"`
	DefaultLimit int   `json:"default_limit" yaml:"default_limit" toml:"default_limit" env:"CRUDD_DEFAULT_LIMIT"`
	MaxLimit     int   `json:"max_limit" yaml:"max_limit" toml:"max_limit" env:"CRUDD_MAX_LIMIT"`

	APITitle       string `json:"api_title" yaml:"api_title" toml:"api_title" env:"CRUDD_API_TITLE"`
	APIVersion     string `json:"api_version" yaml:"api_version" toml:"api_version" env:"CRUDD_API_VERSION"`
	APIDescription string `json:"api_description" yaml:"api_description" toml:"api_description" env:"CRUDD_API_DESCRIPTION"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" env:"CRUDD_CORS_ENABLED"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"CRUDD_CORS_ORIGINS" envSeparator:","`
	CORSMethods []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods" env:"CRUDD_CORS_METHODS" envSeparator:","`
	CORSHeaders []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers" env:"CRUDD_CORS_HEADERS" envSeparator:","`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":8080",
		SchemaDir:      "./schemas",
		DatabaseURL:    "crudd.db",
		LogLevel:       "info",
		MaxBodyBytes:   1 << 20,
		DefaultLimit:   100,
		MaxLimit:       1000,
		APITitle:       "crudd",
		APIVersion:     "1.0.0",
		APIDescription: "Auto-generated CRUD API from resource definitions",
		CORSOrigins:    []string{"*"},
		CORSMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSHeaders:    []string{"Content-Type", "X-Log-Level"},
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Merge lays the non-zero fields of overlay over base and returns the result.
func Merge(base, overlay Config) (Config, error) {
	out := base
	if err := copier.CopyWithOption(&out, &overlay, copier.Option{IgnoreEmpty: true}); err != nil {
		return base, fmt.Errorf("merge config: %w", err)
	}
	// copier treats false as empty; carry the flag explicitly.
	out.CORSEnabled = base.CORSEnabled || overlay.CORSEnabled
	return out, nil
}

// ApplyEnv overlays CRUDD_*/DATABASE_URL environment variables onto cfg.
// Unset variables leave the corresponding fields untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
