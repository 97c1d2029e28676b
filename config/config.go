package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Webhook  WebhookConfig
	Cron     CronConfig
	Notify   NotifyConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GatewayConfig holds payment gateway API credentials.
type GatewayConfig struct {
	Name            string // gateway identifier, e.g. "lytex"
	BaseURL         string
	ClientID        string
	ClientSecret    string
	NotificationURL string // callback URL sent with every charge
}

// WebhookConfig maps gateway names to their shared webhook secrets.
type WebhookConfig struct {
	Secrets map[string]string
}

// CronConfig guards the externally-triggered job endpoints.
type CronConfig struct {
	APIKey string
}

// NotifyConfig holds the external notification collaborator credentials.
type NotifyConfig struct {
	BaseURL string
	APIKey  string
}

// NewRelicConfig holds APM settings.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "enrollment"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Gateway: GatewayConfig{
			Name:            getEnv("GATEWAY_NAME", "lytex"),
			BaseURL:         getEnv("GATEWAY_BASE_URL", "https://api.lytex.com.br"),
			ClientID:        os.Getenv("GATEWAY_CLIENT_ID"),
			ClientSecret:    os.Getenv("GATEWAY_CLIENT_SECRET"),
			NotificationURL: os.Getenv("GATEWAY_NOTIFICATION_URL"),
		},
		Webhook: WebhookConfig{
			Secrets: parseWebhookSecrets(),
		},
		Cron: CronConfig{
			APIKey: os.Getenv("CRON_API_KEY"),
		},
		Notify: NotifyConfig{
			BaseURL: os.Getenv("NOTIFY_BASE_URL"),
			APIKey:  os.Getenv("NOTIFY_API_KEY"),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "Enrollment API"),
			LicenseKey: os.Getenv("NEW_RELIC_LICENSE_KEY"),
		},
	}

	if cfg.Gateway.ClientID == "" || cfg.Gateway.ClientSecret == "" {
		return nil, fmt.Errorf("GATEWAY_CLIENT_ID and GATEWAY_CLIENT_SECRET are required")
	}
	return cfg, nil
}

// parseWebhookSecrets reads WEBHOOK_SECRETS as "gateway=secret,gateway=secret"
// pairs, with LYTEX_WEBHOOK_SECRET as a shortcut for the primary gateway.
func parseWebhookSecrets() map[string]string {
	secrets := make(map[string]string)
	if s := os.Getenv("LYTEX_WEBHOOK_SECRET"); s != "" {
		secrets["lytex"] = s
	}
	for _, pair := range strings.Split(os.Getenv("WEBHOOK_SECRETS"), ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			secrets[parts[0]] = parts[1]
		}
	}
	return secrets
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
