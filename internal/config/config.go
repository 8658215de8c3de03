package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	SMTP        SMTPConfig
	Payment     PaymentConfig
	Auth        AuthConfig
	AMQP        AMQPConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type PaymentConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type AuthConfig struct {
	JWTSecret string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "marketplace"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		SMTP: SMTPConfig{
			Host:     getEnvOrViper("SMTP_HOST", ""),
			Port:     getEnvOrViper("SMTP_PORT", "587"),
			User:     getEnvOrViper("SMTP_MAIL", ""),
			Password: getEnvOrViper("SMTP_PASSWORD", ""),
			From:     getEnvOrViper("SMTP_FROM", "Local Handler"),
		},
		Payment: PaymentConfig{
			KeyID:     getEnvOrViper("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnvOrViper("RAZORPAY_SECRET", ""),
			BaseURL:   getEnvOrViper("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnvOrViper("JWT_SECRET_KEY", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnvOrViper("AMQP_URL", ""),
			Exchange: getEnvOrViper("AMQP_EXCHANGE", "marketplace.events"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
