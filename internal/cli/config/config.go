package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the relspec configuration
type Config struct {
	ProjectName string         `mapstructure:"project_name"`
	Database    DatabaseConfig `mapstructure:"database"`
	Registry    RegistryConfig `mapstructure:"registry"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	URL    string `mapstructure:"url"`
	Driver string `mapstructure:"driver"`
}

// RegistryConfig represents registration configuration
type RegistryConfig struct {
	Manifest     string `mapstructure:"manifest"`
	DefaultScope string `mapstructure:"default_scope"`
	Commit       bool   `mapstructure:"commit"`
}

// Load loads the configuration from relspec.yml or relspec.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("registry.manifest", "entities.yml")
	v.SetDefault("registry.default_scope", "public")
	v.SetDefault("registry.commit", true)

	// Set config name and paths
	v.SetConfigName("relspec")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	// First check environment variable
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// Then check config file
	cfg, err := Load()
	if err != nil {
		return ""
	}

	return cfg.Database.URL
}

// InProject checks if the current directory is a relspec project
func InProject() bool {
	if _, err := os.Stat("relspec.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("relspec.yaml"); err == nil {
		return true
	}

	return false
}

// GetProjectRoot tries to find the project root by looking for relspec.yml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		// Check for relspec.yml or relspec.yaml
		if _, err := os.Stat(filepath.Join(dir, "relspec.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "relspec.yaml")); err == nil {
			return dir, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", fmt.Errorf("not in a relspec project (no relspec.yml found)")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be 'postgres' or 'sqlite', got: %s", cfg.Database.Driver)
	}
	if cfg.Registry.DefaultScope == "" {
		return fmt.Errorf("registry.default_scope must not be empty")
	}
	return nil
}
