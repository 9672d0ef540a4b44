package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig database settings
type DatabaseConfig struct {
	Type string `toml:"type"` // sqlite
	DSN  string `toml:"dsn"`  // data source name
}

// StorageConfig attachment storage settings
type StorageConfig struct {
	ScreenshotsDir string `toml:"screenshots_dir"` // directory for uploaded screenshots
}

// LoadConfig loads the configuration file
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Defaults
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Database.Type == "" {
		config.Database.Type = "sqlite"
	}
	if config.Database.DSN == "" {
		config.Database.DSN = "./data/test_cases.db"
	}
	if config.Storage.ScreenshotsDir == "" {
		config.Storage.ScreenshotsDir = "./data/screenshots"
	}

	return &config, nil
}

// GetAddr returns the server listen address
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
