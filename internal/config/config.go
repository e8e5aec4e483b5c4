package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/dates"
)

// Config is the client configuration, read from config.yaml, STUDYFORGE_*
// environment variables and command-line flags, in increasing priority.
type Config struct {
	APIURL      string        `mapstructure:"api_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	DBPath      string        `mapstructure:"db_path"`
	DateStyle   string        `mapstructure:"date_style"`
	FanoutLimit int           `mapstructure:"fanout_limit"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	RateBurst   int           `mapstructure:"rate_burst"`
	Log         LogConfig     `mapstructure:"log"`
	Retry       RetryConfig   `mapstructure:"retry"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// EnvPrefix prefixes every environment variable, e.g. STUDYFORGE_API_URL.
const EnvPrefix = "STUDYFORGE"

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-url":   "api_url",
	"db":        "db_path",
	"log-level": "log.level",
	"log-file":  "log.file",
}

func setDefaults(v *viper.Viper) {
	api := apiclient.DefaultConfig()
	v.SetDefault("api_url", api.BaseURL)
	v.SetDefault("timeout", api.Timeout)
	v.SetDefault("db_path", "")
	v.SetDefault("date_style", dates.Medium.String())
	v.SetDefault("fanout_limit", api.FanoutLimit)
	v.SetDefault("rate_limit", api.RateLimit)
	v.SetDefault("rate_burst", api.RateBurst)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("retry.max_attempts", api.Retry.MaxAttempts)
	v.SetDefault("retry.initial_wait", api.Retry.InitialWait)
	v.SetDefault("retry.max_wait", api.Retry.MaxWait)
	v.SetDefault("retry.multiplier", api.Retry.Multiplier)
}

// Load reads the configuration. configFile may be empty, in which case
// config.yaml is looked up in the user config directory and is optional.
// flags may be nil; only flags the user actually set override other
// sources.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := dates.ParseStyle(c.DateStyle); err != nil {
		return fmt.Errorf("date_style: %w", err)
	}
	if c.FanoutLimit < 1 {
		return fmt.Errorf("fanout_limit must be at least 1, got %d", c.FanoutLimit)
	}
	return c.API().Validate()
}

// API returns the API client settings.
func (c *Config) API() apiclient.Config {
	return apiclient.Config{
		BaseURL: c.APIURL,
		Timeout: c.Timeout,
		Retry: apiclient.RetryConfig{
			MaxAttempts: c.Retry.MaxAttempts,
			InitialWait: c.Retry.InitialWait,
			MaxWait:     c.Retry.MaxWait,
			Multiplier:  c.Retry.Multiplier,
		},
		FanoutLimit: c.FanoutLimit,
		RateLimit:   c.RateLimit,
		RateBurst:   c.RateBurst,
	}
}

// Style returns the configured date style. Load has already validated it.
func (c *Config) Style() dates.Style {
	s, err := dates.ParseStyle(c.DateStyle)
	if err != nil {
		return dates.Medium
	}
	return s
}

// Dir resolves the config directory:
// 1. $XDG_CONFIG_HOME/studyforge
// 2. ~/.config/studyforge
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "studyforge"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "studyforge"), nil
}

// DefaultLogPath resolves the log file:
// 1. $XDG_STATE_HOME/studyforge/studyforge.log
// 2. ~/.local/state/studyforge/studyforge.log
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "studyforge", "studyforge.log"), nil
}
