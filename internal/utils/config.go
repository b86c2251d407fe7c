package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultAPIKey is the shared secret used when no key is configured. It is
// intentionally obvious and must be replaced in any real deployment.
const DefaultAPIKey = "default-dev-key-change-in-production"

// ServerConfig holds listen settings for the Fiber app.
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Prefork bool   `yaml:"prefork"`
}

// AuthConfig holds the shared-secret API key.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// CORSConfig holds the comma-separated cross-origin allow list.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// LoggerConfig holds log destination, level and rotation settings.
type LoggerConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// PDFConfig holds renderer settings. MaxConcurrent of 0 leaves the number
// of simultaneous renders unbounded; TimeoutSecs of 0 imposes no deadline.
type PDFConfig struct {
	ChromePath      string `yaml:"chrome_path"`
	ChromeNoSandbox bool   `yaml:"chrome_no_sandbox"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
	TimeoutSecs     int    `yaml:"timeout_secs"`
}

// Config is the full service configuration. It is built once at startup and
// read-only afterwards.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	CORS   CORSConfig   `yaml:"cors"`
	Logger LoggerConfig `yaml:"logger"`
	PDF    PDFConfig    `yaml:"pdf"`
}

// envOverrides mirrors the environment surface of the service. Environment
// values win over the config file.
type envOverrides struct {
	APIKey         string `envconfig:"WEASYPRINT_API_KEY"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS"`
	Host           string `envconfig:"HOST"`
	Port           string `envconfig:"PORT"`
	ChromeBin      string `envconfig:"CHROME_BIN"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = ":8000"
	cfg.Auth.APIKey = DefaultAPIKey
	cfg.CORS.AllowedOrigins = "*"
	cfg.Logger.Level = "info"
	return cfg
}

// LoadConfig reads the optional YAML file named by CONFIG_PATH and applies
// environment overrides on top. Invalid configuration panics; there is no
// sensible way to serve without it.
func LoadConfig() Config {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("read config %s: %v", path, err))
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			panic(fmt.Sprintf("parse config %s: %v", path, err))
		}
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		panic(fmt.Sprintf("process environment: %v", err))
	}
	if env.APIKey != "" {
		cfg.Auth.APIKey = env.APIKey
	}
	if env.AllowedOrigins != "" {
		cfg.CORS.AllowedOrigins = env.AllowedOrigins
	}
	if env.Host != "" {
		cfg.Server.Host = env.Host
	}
	if env.Port != "" {
		cfg.Server.Port = env.Port
	}
	// Allow common container env var to override chrome_path.
	if env.ChromeBin != "" && cfg.PDF.ChromePath == "" {
		cfg.PDF.ChromePath = env.ChromeBin
	}

	if cfg.Server.Port != "" && !strings.HasPrefix(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	return cfg
}
