package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the demo's settings, read from EMITTER_* variables.
type Config struct {
	LogLevel  string `env:"EMITTER_LOG_LEVEL" envDefault:"info"`
	Emitters  int    `env:"EMITTER_DEMO_EMITTERS" envDefault:"4"`
	Producers int    `env:"EMITTER_DEMO_PRODUCERS" envDefault:"4"`
	Events    int    `env:"EMITTER_DEMO_EVENTS" envDefault:"1000"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Emitters <= 0 {
		return Config{}, fmt.Errorf("EMITTER_DEMO_EMITTERS must be positive, got %d", cfg.Emitters)
	}
	if cfg.Producers <= 0 {
		return Config{}, fmt.Errorf("EMITTER_DEMO_PRODUCERS must be positive, got %d", cfg.Producers)
	}
	if cfg.Events <= 0 {
		return Config{}, fmt.Errorf("EMITTER_DEMO_EVENTS must be positive, got %d", cfg.Events)
	}
	return cfg, nil
}
