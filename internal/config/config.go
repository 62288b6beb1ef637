package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/humanid-dev/humanid/pkg/humanid"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Issuer   IssuerConfig
	App      AppConfig
}

// DatabaseConfig holds database connection settings. URL is optional: when
// empty the CLI runs in pure-generation mode without an issuance ledger.
type DatabaseConfig struct {
	URL string
}

// IssuerConfig holds identifier issuance settings
type IssuerConfig struct {
	Length int
	Policy string
}

// AppConfig holds general application settings
type AppConfig struct {
	Environment string
	LogLevel    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("ID_LENGTH", humanid.DefaultLength)
	v.SetDefault("ID_POLICY", "default")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	// Bind environment variables
	v.AutomaticEnv()

	// Create config struct
	cfg := &Config{
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Issuer: IssuerConfig{
			Length: v.GetInt("ID_LENGTH"),
			Policy: v.GetString("ID_POLICY"),
		},
		App: AppConfig{
			Environment: v.GetString("ENVIRONMENT"),
			LogLevel:    v.GetString("LOG_LEVEL"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.Issuer.Length < 4 {
		return fmt.Errorf("ID_LENGTH must be at least 4, got %d", c.Issuer.Length)
	}

	policy, err := humanid.Lookup(c.Issuer.Policy)
	if err != nil {
		return fmt.Errorf("ID_POLICY: %w", err)
	}
	if uint64(c.Issuer.Length) > policy.MaxLength() {
		return fmt.Errorf("ID_LENGTH %d exceeds the policy maximum", c.Issuer.Length)
	}

	return nil
}
