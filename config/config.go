package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Chat      ChatConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig holds the product catalog location
type CatalogConfig struct {
	Source  string        `mapstructure:"source"` // file path or http(s) URL
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChatConfig holds chat-completion endpoint configuration
type ChatConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	RoutineMaxTokens int           `mapstructure:"routine_max_tokens"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether an API key is configured. Without one the page
// still serves the catalog and selection but chat is turned off.
func (c ChatConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// StorageConfig holds selection persistence configuration
type StorageConfig struct {
	Type     string        `mapstructure:"type"` // "memory", "file", "redis" or "sqlite"
	Path     string        `mapstructure:"path"`
	RedisURL string        `mapstructure:"redis_url"`
	Key      string        `mapstructure:"key"`
	Prefix   string        `mapstructure:"prefix"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration (requests per minute)
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Chat  int `mapstructure:"chat"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/glowadvisor/")

	// Environment variable settings
	v.SetEnvPrefix("GLOWADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The browser version read OPENAI_API_KEY; keep accepting it
	_ = v.BindEnv("chat.api_key", "GLOWADVISOR_CHAT_API_KEY", "OPENAI_API_KEY")

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.source", "data/products.json")
	v.SetDefault("catalog.timeout", "10s")

	// Chat defaults
	v.SetDefault("chat.base_url", "https://api.openai.com/v1")
	v.SetDefault("chat.model", "gpt-4o")
	v.SetDefault("chat.max_tokens", 200)
	v.SetDefault("chat.routine_max_tokens", 300)
	v.SetDefault("chat.timeout", "60s")

	// Storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", "data/local_storage.json")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.key", "selectedProducts")
	v.SetDefault("storage.prefix", "glowadvisor:")
	v.SetDefault("storage.timeout", "5s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.chat", 60)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Source == "" {
		return fmt.Errorf("catalog source is required")
	}

	if config.Chat.MaxTokens <= 0 || config.Chat.RoutineMaxTokens <= 0 {
		return fmt.Errorf("chat token budgets must be positive, got %d and %d", config.Chat.MaxTokens, config.Chat.RoutineMaxTokens)
	}

	switch config.Storage.Type {
	case "memory":
	case "file", "sqlite":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required when storage type is '%s'", config.Storage.Type)
		}
	case "redis":
		if config.Storage.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when storage type is 'redis'")
		}
	default:
		return fmt.Errorf("storage type must be 'memory', 'file', 'redis' or 'sqlite', got: %s", config.Storage.Type)
	}

	return nil
}
