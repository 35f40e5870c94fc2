// Package config loads campusscan settings from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database struct {
		URL string `toml:"url"`
	} `toml:"database"`

	API struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"api"`

	Scan struct {
		MaxDepth int  `toml:"max_depth"`
		MaxPages int  `toml:"max_pages"`
		WaitMs   int  `toml:"wait_ms"`
		Headless bool `toml:"headless"`
	} `toml:"scan"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Database.URL = ""
	cfg.API.Host = "0.0.0.0"
	cfg.API.Port = 8080
	cfg.Scan.MaxDepth = 3
	cfg.Scan.MaxPages = 50
	cfg.Scan.WaitMs = 2000
	cfg.Scan.Headless = true
	return cfg
}

// Load reads the TOML file at path (missing files fall back to defaults),
// then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file is fine; defaults plus env cover it.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		cfg.Database.URL = v
	}
	if v, ok := os.LookupEnv("HOST"); ok {
		cfg.API.Host = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v, ok := os.LookupEnv("SCAN_MAX_DEPTH"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Scan.MaxDepth = n
		}
	}
	if v, ok := os.LookupEnv("SCAN_MAX_PAGES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Scan.MaxPages = n
		}
	}
}

// Addr returns the API listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
