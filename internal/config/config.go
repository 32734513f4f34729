// Package config loads runtime settings from the environment.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds the settings needed to start the server.
type Config struct {
	AppPort          string
	DBDriver         string
	DatabaseDSN      string
	JWTSecret        string
	RabbitMQURL      string
	OrderEventsQueue string
	// AuditOrderEvents runs the in-process consumer that logs order events.
	// It competes with any other consumer of the queue, so it is disabled
	// when an external service owns the events.
	AuditOrderEvents bool
}

// Load reads configuration from environment variables, falling back to defaults.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db?_foreign_keys=on")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ORDER_EVENTS_QUEUE", "order_events")
	v.SetDefault("ORDER_EVENTS_AUDIT", true)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:          v.GetString("APP_PORT"),
		DBDriver:         v.GetString("DB_DRIVER"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		OrderEventsQueue: v.GetString("ORDER_EVENTS_QUEUE"),
		AuditOrderEvents: v.GetBool("ORDER_EVENTS_AUDIT"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}
	return cfg, nil
}
