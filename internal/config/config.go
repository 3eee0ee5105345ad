package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains service configuration parameters.
type Config struct {
	ServiceName string   `env:"SERVICE_NAME" envDefault:"secretshare-service"`
	Environment string   `env:"ENVIRONMENT" envDefault:"local"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	HTTP        HTTP     `envPrefix:"HTTP_"`
	GRPC        GRPC     `envPrefix:"GRPC_"`
	Database    Database `envPrefix:"DATABASE_"`
	JWT         JWT      `envPrefix:"JWT_"`
	AMQP        AMQP     `envPrefix:"AMQP_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// GRPC contains internal gRPC server parameters.
type GRPC struct {
	Port string `env:"PORT" envDefault:"8085"`
}

// Database contains database connection parameters.
type Database struct {
	DSN          string `env:"DSN"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS" envDefault:"5"`
}

// JWT contains the identity provider token parameters.
type JWT struct {
	Secret string `env:"SECRET"`
}

// AMQP contains event publishing parameters. An empty URL disables publishing.
type AMQP struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"app.events"`
}

// NewConfig loads configuration from the environment, reading an optional
// .env file first.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
