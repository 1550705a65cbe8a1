// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP-facing settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DatabaseConfig holds the MySQL connection details. The service runs
// without a database when these are absent; the testimonial endpoint then
// answers with a configuration error instead of crashing.
type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
}

// Configured reports whether enough connection details are present to open
// a database handle.
func (c DatabaseConfig) Configured() bool {
	return c.Host != "" && c.User != ""
}

// DSN returns the go-sql-driver connection string. parseTime is required so
// created_at columns scan into time.Time.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Name)
}

// EmailConfig holds the settings of the contact relay mailer.
type EmailConfig struct {
	FromAddress  string
	FromName     string
	ToAddress    string
	ResendAPIKey string
}

// Configured reports whether the mailer can be used.
func (c EmailConfig) Configured() bool {
	return c.ResendAPIKey != "" && c.ToAddress != ""
}

// Config aggregates all configuration sections.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
}

// Load reads the configuration from the environment. Every value has a
// usable default except the database and mailer credentials, whose absence
// is tolerated and handled per request.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DBNAME", "portfolio")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("EMAIL_FROM_NAME", "Portfolio")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			AllowedOrigins: splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DBHOST"),
			User:     v.GetString("DBUSER"),
			Password: v.GetString("DBPWD"),
			Name:     v.GetString("DBNAME"),
		},
		Email: EmailConfig{
			FromAddress:  v.GetString("EMAIL_FROM_ADDRESS"),
			FromName:     v.GetString("EMAIL_FROM_NAME"),
			ToAddress:    v.GetString("CONTACT_TO_ADDRESS"),
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
		},
	}
	if cfg.Server.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	return cfg, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
