// Package config collects runtime configuration from the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the process needs to start.
type Config struct {
	AppPort     string
	Environment string
	LogLevel    string

	DatabaseURL string
	RabbitMQURL string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

// Load reads configuration from environment variables with development
// defaults. Access tokens default to 7 days and refresh tokens to 30, matching
// what the mobile clients expect.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "dev-access-secret")
	viper.SetDefault("JWT_REFRESH_SECRET", "dev-refresh-secret")
	viper.SetDefault("JWT_ACCESS_TTL_HOURS", 24*7)
	viper.SetDefault("JWT_REFRESH_TTL_HOURS", 24*30)
	viper.AutomaticEnv()

	return Config{
		AppPort:          viper.GetString("APP_PORT"),
		Environment:      viper.GetString("APP_ENV"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		RabbitMQURL:      viper.GetString("RABBITMQ_URL"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		JWTRefreshSecret: viper.GetString("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   time.Duration(viper.GetInt("JWT_ACCESS_TTL_HOURS")) * time.Hour,
		RefreshTokenTTL:  time.Duration(viper.GetInt("JWT_REFRESH_TTL_HOURS")) * time.Hour,
	}
}
