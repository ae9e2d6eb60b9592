// Package config provides configuration management for modelapi.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with MA_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml, ~/.modelapi/config.yaml, /etc/modelapi/config.yaml)
//  3. .env files
//  4. Environment variables (MA_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
//
// # Environment Variables
//
// Use MA_ prefix and underscores for nested keys:
//   - MA_SERVER_PORT=8100
//   - MA_MONGODB_URI=mongodb://localhost:27017
//   - MA_STORAGE_DRIVER=memory
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the root configuration structure for modelapi.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Storage selects the document store driver
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// MongoDB contains database connection settings
	MongoDB MongoDBConfig `mapstructure:"mongodb" yaml:"mongodb"`

	// JSONAPI contains wire format settings
	JSONAPI JSONAPIConfig `mapstructure:"jsonapi" yaml:"jsonapi"`

	// Models points to optional extra model definitions
	Models ModelsConfig `mapstructure:"models" yaml:"models"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Security contains CORS and rate limiting settings
	Security SecurityConfig `mapstructure:"security" yaml:"security"`

	// Events controls the resource change feed
	Events EventsConfig `mapstructure:"events" yaml:"events"`

	// Metrics controls the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the server listen port (default: 8100)
	Port int `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`

	// BasePath is the mount point of the resource API (default: /api/rest)
	BasePath string `mapstructure:"base_path" yaml:"base_path" validate:"required,startswith=/"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Debug exposes internal error details in responses
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// BodyLimit caps request bodies (echo size notation, e.g. "1M")
	BodyLimit string `mapstructure:"body_limit" yaml:"body_limit"`

	// CompressionLevel is the gzip level for responses, 0 disables compression
	CompressionLevel int `mapstructure:"compression_level" yaml:"compression_level" validate:"min=-1,max=9"`

	// TLSEnabled enables HTTPS
	TLSEnabled bool `mapstructure:"tls_enabled" yaml:"tls_enabled"`

	// TLSCert is the path to the TLS certificate file
	TLSCert string `mapstructure:"tls_cert" yaml:"tls_cert" validate:"required_if=TLSEnabled true"`

	// TLSKey is the path to the TLS private key file
	TLSKey string `mapstructure:"tls_key" yaml:"tls_key" validate:"required_if=TLSEnabled true"`
}

// StorageConfig selects the document store.
type StorageConfig struct {
	// Driver is "mongodb" or "memory"
	Driver string `mapstructure:"driver" yaml:"driver" validate:"oneof=mongodb memory"`
}

// MongoDBConfig contains MongoDB connection settings.
type MongoDBConfig struct {
	// URI is the MongoDB connection string
	URI string `mapstructure:"uri" yaml:"uri" validate:"required_if=Enabled true"`

	// Database is the database holding one collection per model type
	Database string `mapstructure:"database" yaml:"database" validate:"required"`

	// ReadPreference is the read preference mode (primary, nearest, ...)
	ReadPreference string `mapstructure:"read_preference" yaml:"read_preference"`

	// Timeout bounds connection establishment
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Enabled is derived from the storage driver and not read from configuration
	Enabled bool `mapstructure:"-" yaml:"-"`
}

// JSONAPIConfig contains wire format settings.
type JSONAPIConfig struct {
	// KeyCase is the attribute casing on the wire (camelCase, dash-case, snake_case)
	KeyCase string `mapstructure:"key_case" yaml:"key_case" validate:"oneof=camelCase dash-case snake_case"`
}

// ModelsConfig points to extra model definitions.
type ModelsConfig struct {
	// File is an optional YAML file with additional model definitions
	File string `mapstructure:"file" yaml:"file"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`

	// Output is the log output destination (stdout, stderr, or a file path)
	Output string `mapstructure:"output" yaml:"output"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client, 0 disables limiting
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit" validate:"min=0"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// EventsConfig controls the WebSocket resource change feed.
type EventsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" validate:"required_if=Enabled true"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.modelapi")
		v.AddConfigPath("/etc/modelapi")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			// A missing explicit file falls back to defaults
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("MA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	loaded.MongoDB.Enabled = loaded.Storage.Driver == "mongodb"

	if err := validate(loaded); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8100)
	v.SetDefault("server.base_path", "/api/rest")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.body_limit", "1M")
	v.SetDefault("server.compression_level", 6)
	v.SetDefault("server.tls_enabled", false)

	v.SetDefault("storage.driver", "mongodb")

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "modelapi")
	v.SetDefault("mongodb.read_preference", "nearest")
	v.SetDefault("mongodb.timeout", "10s")

	v.SetDefault("jsonapi.key_case", "camelCase")

	v.SetDefault("models.file", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})

	v.SetDefault("events.enabled", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func validate(c *Config) error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if strings.HasSuffix(c.Server.BasePath, "/") && c.Server.BasePath != "/" {
		return fmt.Errorf("server base_path must not end with '/': %s", c.Server.BasePath)
	}

	return nil
}

// Get returns the most recently loaded configuration.
func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
