package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("GLOWADVISOR_SERVER_PORT")
		os.Unsetenv("GLOWADVISOR_SERVER_ENVIRONMENT")
		os.Unsetenv("GLOWADVISOR_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("GLOWADVISOR_CATALOG_SOURCE")
		os.Unsetenv("GLOWADVISOR_CHAT_API_KEY")
		os.Unsetenv("GLOWADVISOR_CHAT_BASE_URL")
		os.Unsetenv("GLOWADVISOR_CHAT_MODEL")
		os.Unsetenv("GLOWADVISOR_CHAT_MAX_TOKENS")
		os.Unsetenv("GLOWADVISOR_CHAT_ROUTINE_MAX_TOKENS")
		os.Unsetenv("GLOWADVISOR_STORAGE_TYPE")
		os.Unsetenv("GLOWADVISOR_STORAGE_PATH")
		os.Unsetenv("GLOWADVISOR_STORAGE_REDIS_URL")
		os.Unsetenv("GLOWADVISOR_RATELIMIT_PER_IP")
		os.Unsetenv("GLOWADVISOR_RATELIMIT_CHAT")
		os.Unsetenv("GLOWADVISOR_LOG_LEVEL")
		os.Unsetenv("OPENAI_API_KEY")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("GLOWADVISOR_CHAT_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.Source != "data/products.json" {
			t.Errorf("Catalog.Source = %s, want data/products.json", cfg.Catalog.Source)
		}
		if cfg.Chat.BaseURL != "https://api.openai.com/v1" {
			t.Errorf("Chat.BaseURL = %s, want https://api.openai.com/v1", cfg.Chat.BaseURL)
		}
		if cfg.Chat.Model != "gpt-4o" {
			t.Errorf("Chat.Model = %s, want gpt-4o", cfg.Chat.Model)
		}
		if cfg.Chat.MaxTokens != 200 {
			t.Errorf("Chat.MaxTokens = %d, want 200", cfg.Chat.MaxTokens)
		}
		if cfg.Chat.RoutineMaxTokens != 300 {
			t.Errorf("Chat.RoutineMaxTokens = %d, want 300", cfg.Chat.RoutineMaxTokens)
		}
		if cfg.Chat.Timeout != 60*time.Second {
			t.Errorf("Chat.Timeout = %v, want 60s", cfg.Chat.Timeout)
		}
		if cfg.Storage.Type != "file" {
			t.Errorf("Storage.Type = %s, want file", cfg.Storage.Type)
		}
		if cfg.Storage.Key != "selectedProducts" {
			t.Errorf("Storage.Key = %s, want selectedProducts", cfg.Storage.Key)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Chat != 60 {
			t.Errorf("RateLimit.Chat = %d, want 60", cfg.RateLimit.Chat)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GLOWADVISOR_SERVER_PORT", "9090")
		os.Setenv("GLOWADVISOR_SERVER_ENVIRONMENT", "production")
		os.Setenv("GLOWADVISOR_CATALOG_SOURCE", "https://cdn.example.com/products.json")
		os.Setenv("GLOWADVISOR_CHAT_API_KEY", "custom-api-key")
		os.Setenv("GLOWADVISOR_CHAT_BASE_URL", "https://custom.api.com/v1")
		os.Setenv("GLOWADVISOR_CHAT_MODEL", "gpt-4o-mini")
		os.Setenv("GLOWADVISOR_CHAT_MAX_TOKENS", "150")
		os.Setenv("GLOWADVISOR_STORAGE_TYPE", "redis")
		os.Setenv("GLOWADVISOR_STORAGE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("GLOWADVISOR_RATELIMIT_PER_IP", "200")
		os.Setenv("GLOWADVISOR_RATELIMIT_CHAT", "20")
		os.Setenv("GLOWADVISOR_LOG_LEVEL", "debug")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.Source != "https://cdn.example.com/products.json" {
			t.Errorf("Catalog.Source = %s", cfg.Catalog.Source)
		}
		if cfg.Chat.APIKey != "custom-api-key" {
			t.Errorf("Chat.APIKey = %s, want custom-api-key", cfg.Chat.APIKey)
		}
		if cfg.Chat.BaseURL != "https://custom.api.com/v1" {
			t.Errorf("Chat.BaseURL = %s, want https://custom.api.com/v1", cfg.Chat.BaseURL)
		}
		if cfg.Chat.Model != "gpt-4o-mini" {
			t.Errorf("Chat.Model = %s, want gpt-4o-mini", cfg.Chat.Model)
		}
		if cfg.Chat.MaxTokens != 150 {
			t.Errorf("Chat.MaxTokens = %d, want 150", cfg.Chat.MaxTokens)
		}
		if cfg.Storage.Type != "redis" {
			t.Errorf("Storage.Type = %s, want redis", cfg.Storage.Type)
		}
		if cfg.Storage.RedisURL != "redis://localhost:6379" {
			t.Errorf("Storage.RedisURL = %s, want redis://localhost:6379", cfg.Storage.RedisURL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Chat != 20 {
			t.Errorf("RateLimit.Chat = %d, want 20", cfg.RateLimit.Chat)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("accepts OPENAI_API_KEY", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("OPENAI_API_KEY", "sk-from-openai-var")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Chat.APIKey != "sk-from-openai-var" {
			t.Errorf("Chat.APIKey = %s, want sk-from-openai-var", cfg.Chat.APIKey)
		}
	})

	t.Run("loads without API key and leaves chat disabled", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Chat.Enabled() {
			t.Error("Chat.Enabled() = true, want false without an API key")
		}
	})

	t.Run("fails validation for invalid storage type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GLOWADVISOR_CHAT_API_KEY", "test-key")
		os.Setenv("GLOWADVISOR_STORAGE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid storage type")
		}
	})

	t.Run("fails validation when redis URL missing for redis storage", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GLOWADVISOR_CHAT_API_KEY", "test-key")
		os.Setenv("GLOWADVISOR_STORAGE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("skips empty lines and comments", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file with various formats
		envContent := `
# This is a comment
   # This is also a comment

TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
		os.Unsetenv("TEST_COMMENTED")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Catalog: CatalogConfig{Source: "data/products.json"},
			Chat: ChatConfig{
				APIKey:           "test-key",
				BaseURL:          "https://api.openai.com/v1",
				MaxTokens:        200,
				RoutineMaxTokens: 300,
			},
			Storage: StorageConfig{Type: "memory"},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("accepts empty API key", func(t *testing.T) {
		cfg := valid()
		cfg.Chat.APIKey = ""
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
		if cfg.Chat.Enabled() {
			t.Error("Chat.Enabled() = true, want false")
		}
	})

	t.Run("fails when catalog source is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Catalog.Source = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty catalog source")
		}
	})

	t.Run("fails for non-positive token budget", func(t *testing.T) {
		cfg := valid()
		cfg.Chat.RoutineMaxTokens = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero routine budget")
		}
	})

	t.Run("fails for invalid storage type", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Type = "cookie"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid storage type")
		}
	})

	t.Run("validates redis storage with URL", func(t *testing.T) {
		cfg := valid()
		cfg.Storage = StorageConfig{Type: "redis", RedisURL: "redis://localhost:6379"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid redis config", err)
		}
	})

	t.Run("fails for redis storage without URL", func(t *testing.T) {
		cfg := valid()
		cfg.Storage = StorageConfig{Type: "redis"}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for redis without URL")
		}
	})

	t.Run("fails for file and sqlite storage without path", func(t *testing.T) {
		for _, typ := range []string{"file", "sqlite"} {
			cfg := valid()
			cfg.Storage = StorageConfig{Type: typ}
			if err := validate(cfg); err == nil {
				t.Errorf("validate() error = nil, want error for %s without path", typ)
			}
		}
	})
}
