// Package config loads application configuration from an optional YAML file
// and the environment, with working defaults for every key.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Callback CallbackConfig `mapstructure:"callback"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Reply    ReplyConfig    `mapstructure:"reply"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type AuthConfig struct {
	// APIKey guards /api/v1; every request must carry it in X-Api-Key.
	APIKey string `mapstructure:"api_key"`
}

type CallbackConfig struct {
	// URL of the external reporting endpoint. Empty disables reporting.
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CatalogConfig struct {
	// OverlayPath points at an optional JSON file replacing trigger lists,
	// weights, and escalators. Empty means built-in defaults only.
	OverlayPath string `mapstructure:"overlay_path"`
	// Watch enables hot reload of the overlay file.
	Watch bool `mapstructure:"watch"`
}

type ReplyConfig struct {
	// Policy selects the reply strategy: "session" (stateful escalation) or
	// "message" (stateless category table).
	Policy string `mapstructure:"policy"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// Reply policy names.
const (
	PolicySession = "session"
	PolicyMessage = "message"
)

// Load reads honeypot.yaml (optional) plus HONEYPOT_* environment variables.
// path may name a specific config file; empty means search the working
// directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("auth.api_key", "test-secret-key")
	v.SetDefault("callback.url", "")
	v.SetDefault("callback.timeout", 5*time.Second)
	v.SetDefault("catalog.overlay_path", "")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("reply.policy", PolicySession)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("honeypot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HONEYPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PaaS platforms inject PORT; honor it over the file value.
	_ = v.BindEnv("server.port", "HONEYPOT_SERVER_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults and env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Reply.Policy {
	case PolicySession, PolicyMessage:
	default:
		return fmt.Errorf("invalid reply policy %q (want %q or %q)", c.Reply.Policy, PolicySession, PolicyMessage)
	}
	return nil
}
