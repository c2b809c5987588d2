package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded into the process environment before parsing, if present.
const DefaultEnvFile = "configs/.env"

// Load reads configuration from an optional YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// Variables from configs/.env are exported first without overriding the real environment.
// The YAML file is only read when CONFIG_PATH is set.
func Load() (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load %s: %w", DefaultEnvFile, err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
