package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	SQLDatabase   DatabaseConfig  `yaml:"sql_database"`   // SQLite for the tracked-entity registry
	NoSQLDatabase DatabaseConfig  `yaml:"nosql_database"` // MongoDB for the snapshot archive
	API           APIConfig       `yaml:"api,omitempty"`
	Collector     CollectorConfig `yaml:"collector,omitempty"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// APIConfig represents REST API server configuration
type APIConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       string `yaml:"port,omitempty"`
	CORSOrigin string `yaml:"cors_origin,omitempty"`
}

// CollectorConfig tunes snapshot collection runs
type CollectorConfig struct {
	RequestsPerMinute int     `yaml:"requests_per_minute,omitempty"` // provider call budget
	Temperature       float64 `yaml:"temperature,omitempty"`
	MaxRetries        int     `yaml:"max_retries,omitempty"`
	RetryDelaySecs    int     `yaml:"retry_delay_seconds,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SQLDatabase: DatabaseConfig{
			Provider: "sqlite",
			URI:      "geoscope.db",
			Database: "geoscope",
		},
		NoSQLDatabase: DatabaseConfig{
			Provider: "mongodb",
			URI:      "mongodb://localhost:27017",
			Database: "geoscope",
		},
		API: APIConfig{
			Host:       "0.0.0.0",
			Port:       "8989",
			CORSOrigin: "*",
		},
		Collector: CollectorConfig{
			RequestsPerMinute: 60,
			Temperature:       0.7,
			MaxRetries:        3,
			RetryDelaySecs:    30,
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geoscope/config.yaml"
	}
	return filepath.Join(home, ".geoscope", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
