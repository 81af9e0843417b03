package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/medex/marketplace-api/internal/repository/postgres"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    postgres.Config   `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	RateLimit      int `mapstructure:"rate_limit"`
	RateBurst      int `mapstructure:"rate_burst"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
	// DevTokenMint enables POST /auth/token. Never enable in a
	// deployment with a real identity provider in front.
	DevTokenMint bool `mapstructure:"dev_token_mint"`
}

// MarketplaceConfig names the well-known addresses of the deployment.
// Owner receives redemption fees and marketplace settlement shares;
// Marketplace is the service's own registry identity; Seed is the root
// of the organization admission chain.
type MarketplaceConfig struct {
	Owner        string `mapstructure:"owner"`
	Marketplace  string `mapstructure:"marketplace"`
	Seed         string `mapstructure:"seed"`
	SeedName     string `mapstructure:"seed_name"`
	SeedLocation string `mapstructure:"seed_location"`
	SeedOrgType  uint8  `mapstructure:"seed_org_type"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Marketplace.Marketplace == "" {
		return nil, fmt.Errorf("marketplace address must be configured")
	}
	if config.Marketplace.Seed == "" {
		return nil, fmt.Errorf("seed organization address must be configured")
	}

	return &config, nil
}
