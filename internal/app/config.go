package app

import (
	"errors"

	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/plan"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildsPath string // root of the build document tree

	Channel document.Channel
	Version string
	OutPath string // plan destination; empty or "-" means stdout
	Format  plan.Format

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it ready for NewApp. Entrypoints
// construct their Config from flags or test fixtures; the checks here are the
// contract either way.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildsPath == "" {
		return nil, errors.New("BuildsPath is a required configuration field and cannot be empty")
	}
	if _, err := document.ParseChannel(string(cfg.Channel)); err != nil {
		return nil, err
	}
	if err := plan.ValidateVersion(cfg.Channel, cfg.Version); err != nil {
		return nil, err
	}
	if _, err := plan.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	return &cfg, nil
}
