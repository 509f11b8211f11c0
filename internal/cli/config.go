package cli

import (
	"fmt"

	"github.com/caarlos0/env"
)

// ConsoleConfig is read from the environment; root flags override it.
type ConsoleConfig struct {
	RemoteAddress string `env:"STORESTRING_REMOTE_ADDRESS" envDefault:"http://localhost:8080/api"`
	StoreID       int64  `env:"STORE_ID" envDefault:"1"`
	CachePath     string `env:"DESK_CACHE_PATH" envDefault:"stringdesk-cache.db"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"warn"`
}

func LoadConsoleConfig() (ConsoleConfig, error) {
	cfg := ConsoleConfig{}
	if err := env.Parse(&cfg); err != nil {
		return ConsoleConfig{}, err
	}
	if cfg.StoreID <= 0 {
		return ConsoleConfig{}, fmt.Errorf("STORE_ID must be a positive integer, got %d", cfg.StoreID)
	}
	return cfg, nil
}
