package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Provider holds the user-supplied settings for one backend.
type Provider struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type Paths struct {
	Data    string `mapstructure:"data"`
	Outputs string `mapstructure:"outputs"`
}

type Timeouts struct {
	ConnectSec int `mapstructure:"connect_sec"`
	ReceiveSec int `mapstructure:"receive_sec"`
}

func (t Timeouts) Connect() time.Duration { return time.Duration(t.ConnectSec) * time.Second }
func (t Timeouts) Receive() time.Duration { return time.Duration(t.ReceiveSec) * time.Second }

// Config is the root configuration. A processing run works on a Snapshot
// taken when the run starts, so settings edits mid-run never leak in.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Listen   string `mapstructure:"listen"`

	Paths    Paths    `mapstructure:"paths"`
	Timeouts Timeouts `mapstructure:"timeouts"`

	Transcription struct {
		Provider string `mapstructure:"provider"`
	} `mapstructure:"transcription"`

	Summarization struct {
		Provider string `mapstructure:"provider"`
	} `mapstructure:"summarization"`

	Diarization struct {
		Enabled   bool   `mapstructure:"enabled"`
		EngineURL string `mapstructure:"engine_url"`
	} `mapstructure:"diarization"`

	Providers map[string]Provider `mapstructure:"providers"`
}

// Load reads the config file (yaml) and environment overrides prefixed
// RECAPKIT_. An empty path falls back to ./recapkit.yaml then
// ~/.config/recapkit/recapkit.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recapkit")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recapkit")
	}

	v.SetEnvPrefix("RECAPKIT")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("listen", ":8080")
	v.SetDefault("paths.data", "data")
	v.SetDefault("paths.outputs", "outputs")
	v.SetDefault("timeouts.connect_sec", 30)
	v.SetDefault("timeouts.receive_sec", 600)
	v.SetDefault("transcription.provider", "whisperd")
	v.SetDefault("summarization.provider", "ollama")
	v.SetDefault("diarization.enabled", true)
	v.SetDefault("diarization.engine_url", "http://localhost:7070")

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, defaults plus env carry the day.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Snapshot returns an independent copy safe to hold for the length of a
// processing run.
func (c *Config) Snapshot() Config {
	out := *c
	out.Providers = make(map[string]Provider, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}
	return out
}

// ProviderFor returns the settings block for a provider id, zero-valued
// when the user never configured it.
func (c *Config) ProviderFor(id string) Provider {
	return c.Providers[id]
}
