// Package config loads Reelkit settings from ~/.reelkit/config.yaml and the
// environment. Environment variables win, prefixed REELKIT_ (dots become
// underscores, so poll.interval is REELKIT_POLL_INTERVAL).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the binaries need at startup.
type Config struct {
	APIURL string `mapstructure:"api_url"`

	Poll struct {
		Interval time.Duration `mapstructure:"interval"`
		Ceiling  time.Duration `mapstructure:"ceiling"`
		Grace    time.Duration `mapstructure:"grace"`
	} `mapstructure:"poll"`

	Notify struct {
		Desktop bool `mapstructure:"desktop"`
	} `mapstructure:"notify"`

	Log struct {
		File  string `mapstructure:"file"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Dir returns the per-user Reelkit directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config.Dir: %w", err)
	}
	dir := filepath.Join(home, ".reelkit")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("config.Dir: %w", err)
	}
	return dir, nil
}

// Load reads the user config file if present and applies env overrides.
// A missing file is fine; the defaults carry a fresh install.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFrom(dir)
}

func loadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("REELKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", "https://app.reelkit.com")
	v.SetDefault("poll.interval", 30*time.Second)
	v.SetDefault("poll.ceiling", 20*time.Minute)
	v.SetDefault("poll.grace", 2*time.Second)
	v.SetDefault("notify.desktop", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.Load: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	return &cfg, nil
}
