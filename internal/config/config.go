package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Alerts
	Alerts AlertsConfig
}

// AlertsConfig configures the budget alert dispatcher and its delivery
// channel. Channel is one of "log", "smtp" or "amqp".
type AlertsConfig struct {
	Enabled   bool
	Channel   string
	QueueSize int
	Workers   int

	SMTP SMTPConfig
	AMQP AMQPConfig
}

// SMTPConfig holds email delivery settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// AMQPConfig holds RabbitMQ delivery settings
type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		Alerts: AlertsConfig{
			Enabled:   getEnvBool("ALERTS_ENABLED", true),
			Channel:   getEnv("ALERTS_CHANNEL", "log"),
			QueueSize: getEnvInt("ALERTS_QUEUE_SIZE", 256),
			Workers:   getEnvInt("ALERTS_WORKERS", 2),
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnv("SMTP_PORT", "587"),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
				From:     getEnv("SMTP_FROM", "alerts@fintrack.app"),
			},
			AMQP: AMQPConfig{
				URL:      getEnv("AMQP_URL", ""),
				Exchange: getEnv("AMQP_EXCHANGE", "fintrack"),
				Queue:    getEnv("AMQP_QUEUE", "budget-alerts"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Alerts.Channel {
	case "log", "smtp", "amqp":
	default:
		return fmt.Errorf("ALERTS_CHANNEL must be one of log, smtp, amqp")
	}
	if c.Alerts.Channel == "smtp" && c.Alerts.SMTP.Host == "" {
		return fmt.Errorf("SMTP_HOST is required when ALERTS_CHANNEL=smtp")
	}
	if c.Alerts.Channel == "amqp" && c.Alerts.AMQP.URL == "" {
		return fmt.Errorf("AMQP_URL is required when ALERTS_CHANNEL=amqp")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
