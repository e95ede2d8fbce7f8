package config

import (
	"encoding/json"
	"log"
	"os"
)

type Config struct {
	App       AppConfig                 `json:"app"`
	Providers map[string]ProviderConfig `json:"providers"`
	History   HistoryConfig             `json:"history"`
	Replay    ReplayConfig              `json:"replay"`
}

type AppConfig struct {
	Name   string `json:"name"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Enabled bool   `json:"enabled"`
}

type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type ReplayConfig struct {
	Headless       bool `json:"headless"`
	TimeoutSeconds int  `json:"timeout_seconds"`
}

func LoadConfig(path string) *Config {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config file: %v", err)
	}

	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills the blanks a minimal config file leaves open.
func (c *Config) ApplyDefaults() {
	if c.App.Input == "" {
		c.App.Input = "test_execution.json"
	}
	if c.App.Output == "" {
		c.App.Output = "workflow.json"
	}
	if c.History.Path == "" {
		c.History.Path = "traceforge.db"
	}
	if c.Replay.TimeoutSeconds == 0 {
		c.Replay.TimeoutSeconds = 60
	}
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}
