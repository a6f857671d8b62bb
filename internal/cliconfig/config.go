// Package cliconfig loads aegisctl settings through viper.
package cliconfig

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete aegisctl configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Grouping GroupingConfig `mapstructure:"grouping"`
	Output   OutputConfig   `mapstructure:"output"`
}

// ServerConfig locates the dashboard API.
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds credentials. Prefer AEGISCTL_AUTH_* variables over the file.
type AuthConfig struct {
	SessionToken string `mapstructure:"session_token"`
	AdminSecret  string `mapstructure:"admin_secret"`
}

// GroupingConfig sets defaults for session grouping.
type GroupingConfig struct {
	GapMinutes float64 `mapstructure:"gap_minutes"`
	Timezone   string  `mapstructure:"timezone"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads .aegisctl.yaml (or cfgFile) and AEGISCTL_* environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".aegisctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/aegisctl")
	}

	v.SetEnvPrefix("AEGISCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "http://localhost:8890")
	v.SetDefault("server.timeout", 10*time.Second)
	v.SetDefault("auth.session_token", "")
	v.SetDefault("auth.admin_secret", "")
	v.SetDefault("grouping.gap_minutes", 30.0)
	v.SetDefault("grouping.timezone", "Local")
	v.SetDefault("output.colors", true)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url must be an absolute URL, got %q", c.Server.URL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if !(c.Grouping.GapMinutes > 0) || math.IsInf(c.Grouping.GapMinutes, 1) {
		return fmt.Errorf("grouping.gap_minutes must be a positive number")
	}
	return nil
}

// Location resolves Grouping.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Grouping.Timezone == "" || strings.EqualFold(c.Grouping.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Grouping.Timezone)
}
