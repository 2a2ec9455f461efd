package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/wippyai/redismod/hosttest"
)

// Config describes the module to load and the keyspace to seed before
// any command runs.
type Config struct {
	Module ModuleConfig `toml:"module"`
	Seed   []SeedEntry  `toml:"seed"`
}

type ModuleConfig struct {
	Name    string `toml:"name" validate:"required"`
	Version string `toml:"version" validate:"required,semver"`
}

// SeedEntry seeds one key. Exactly one of Value, List or Hash selects
// the key's type; a bare entry seeds an empty string.
type SeedEntry struct {
	Key   string            `toml:"key" validate:"required"`
	Value string            `toml:"value"`
	List  []string          `toml:"list"`
	Hash  map[string]string `toml:"hash"`
}

func defaultConfig() *Config {
	return &Config{
		Module: ModuleConfig{Name: "demo", Version: "0.1.0"},
	}
}

func loadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return &cfg, nil
}

// seed loads the configured entries into the host keyspace.
func (c *Config) seed(h *hosttest.Host) {
	for _, e := range c.Seed {
		switch {
		case len(e.List) > 0:
			h.SeedList(e.Key, e.List...)
		case len(e.Hash) > 0:
			h.SeedHash(e.Key, e.Hash)
		default:
			h.Set(e.Key, e.Value)
		}
	}
}
