package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

// Config holds the full server configuration.
type Config struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"database"`
	Storage  Storage  `koanf:"storage"`
}

// Server holds HTTP server settings.
type Server struct {
	Port         string `koanf:"port"`
	CORSOrigin   string `koanf:"cors_origin"`
	CookieSecure bool   `koanf:"cookie_secure"`
}

// Database holds SQLite settings.
type Database struct {
	Path string `koanf:"path"`
}

// Storage holds MinIO settings for document storage. An empty endpoint
// disables uploads.
type Storage struct {
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UseSSL          bool   `koanf:"use_ssl"`
}

// defaults are the development settings used when neither the config file
// nor the environment overrides them.
var defaults = map[string]any{
	"server.port":        "3001",
	"server.cors_origin": "http://localhost:5173",
	"database.path":      "./data/cookideas.db",
}

// Load reads configuration from an optional YAML file, then applies
// COOKIDEAS_-prefixed environment variables (COOKIDEAS_SERVER_PORT,
// COOKIDEAS_DATABASE_PATH, ...) on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("COOKIDEAS_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "COOKIDEAS_"))
		// COOKIDEAS_SERVER_CORS_ORIGIN -> server.cors_origin
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
