package config

import (
	"fmt"
	"os"

	"price-streamer/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides loading/validation logic
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from a YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills in zero-valued fields with the stock defaults
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8765
	}
	if c.Stream.TickIntervalSeconds == 0 {
		c.Stream.TickIntervalSeconds = 2
	}
	if c.Stream.Fluctuation == 0 {
		c.Stream.Fluctuation = 0.5
	}
	if c.Stream.PriceFloor == 0 {
		c.Stream.PriceFloor = 0.01
	}
	if c.Stream.InitialPriceMin == 0 {
		c.Stream.InitialPriceMin = 50
	}
	if c.Stream.InitialPriceMax == 0 {
		c.Stream.InitialPriceMax = 200
	}
	if c.Detector.WindowSeconds == 0 {
		c.Detector.WindowSeconds = 60
	}
	if c.Detector.ThresholdPercent == 0 {
		c.Detector.ThresholdPercent = 2.0
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Notify.QueueSize == 0 {
		c.Notify.QueueSize = 64
	}
	if c.Analysis.Calendar == "" {
		c.Analysis.Calendar = "xnys"
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Server configuration
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Stream configuration
	if len(c.Stream.Tickers) == 0 {
		return fmt.Errorf("at least one ticker must be configured")
	}
	if c.Stream.TickIntervalSeconds <= 0 {
		return fmt.Errorf("tick interval must be greater than 0")
	}
	if c.Stream.Fluctuation <= 0 {
		return fmt.Errorf("price fluctuation must be greater than 0")
	}
	if c.Stream.PriceFloor <= 0 {
		return fmt.Errorf("price floor must be greater than 0")
	}
	if c.Stream.InitialPriceMax < c.Stream.InitialPriceMin {
		return fmt.Errorf("initial price max %.2f is below min %.2f", c.Stream.InitialPriceMax, c.Stream.InitialPriceMin)
	}

	// Detector configuration
	if c.Detector.WindowSeconds <= 0 {
		return fmt.Errorf("detector window must be greater than 0")
	}
	if c.Detector.ThresholdPercent <= 0 {
		return fmt.Errorf("detector threshold must be greater than 0")
	}

	// Storage configuration
	if c.Storage.DBType != "sqlite" && c.Storage.DBType != "postgres" {
		return fmt.Errorf("unknown database type: %s", c.Storage.DBType)
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}

	// Notify configuration
	if c.Notify.QueueSize <= 0 {
		return fmt.Errorf("notification queue size must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
