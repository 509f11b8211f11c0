package config

import (
	"github.com/caarlos0/env"
	"go.uber.org/zap"

	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
)

type Config struct {
	Address string `env:"RUN_ADDRESS"`

	DatabaseDNS string `env:"DATABASE_URI"`
	LogLevel    string `env:"LOG_LEVEL"`
}

func InitConfig() *Config {
	flags := Flags{}
	flags.Init()

	cfg := flags.config()
	cfg.parseEnv()
	cfg.applyDefaults()

	return &cfg
}

func (flags Flags) config() Config {
	return Config{
		Address:     flags.address,
		DatabaseDNS: flags.dbDNS,
		LogLevel:    flags.logLevel,
	}
}

func (cfg *Config) parseEnv() {
	err := env.Parse(cfg)
	if err != nil {
		logger.Log.Warn("Getting an error while parsing the configuration", zap.String("err", err.Error()))
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
}
