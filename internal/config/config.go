// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DBPath   string `env:"DB_PATH" envDefault:"./data/ledger.db"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
