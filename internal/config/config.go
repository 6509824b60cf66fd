// Package config loads settings for the CLI and the gateway from a YAML
// file, a .env file and LOGO_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"logoobjects/internal/infrastructure/logoapi"
	"logoobjects/pkg/logger"
)

// EnvPrefix prefixes every environment variable, e.g. LOGO_API_BASE_URL.
const EnvPrefix = "LOGO"

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Mirror  MirrorConfig  `mapstructure:"mirror"`
}

// APIConfig describes the Logo Objects endpoint.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	FirmNo       string        `mapstructure:"firm_no"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// StrictFields rejects criteria fields missing from the entity tables.
	StrictFields bool `mapstructure:"strict_fields"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type GatewayConfig struct {
	Addr       string `mapstructure:"addr"`
	APIKeyHash string `mapstructure:"api_key_hash"`
}

type MirrorConfig struct {
	DSN      string `mapstructure:"dsn"`
	PageSize int    `mapstructure:"page_size"`
}

// LoadOptions points Load at explicit files. Zero values use
// ./logoobjects.yaml and ./.env when present.
type LoadOptions struct {
	ConfigFile string
	EnvFiles   []string
}

var defaults = map[string]any{
	"api.base_url":         "",
	"api.username":         "",
	"api.password":         "",
	"api.firm_no":          "",
	"api.client_id":        "",
	"api.client_secret":    "",
	"api.timeout":          "30s",
	"api.strict_fields":    false,
	"log.level":            "info",
	"log.development":      false,
	"gateway.addr":         ":8080",
	"gateway.api_key_hash": "",
	"mirror.dsn":           "",
	"mirror.page_size":     100,
}

// Load reads the configuration. Missing files are not an error; malformed
// ones are.
func Load(opts LoadOptions) (*Config, error) {
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// Existing environment variables win over the file.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("logoobjects")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(opts.ConfigFile == "" && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to reach the API.
func (c *Config) Validate() error {
	var missing []string
	if c.API.BaseURL == "" {
		missing = append(missing, EnvPrefix+"_API_BASE_URL")
	}
	if c.API.Username != "" && c.API.FirmNo == "" {
		missing = append(missing, EnvPrefix+"_API_FIRM_NO")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Mirror.PageSize < 0 {
		return fmt.Errorf("mirror page size must not be negative, got %d", c.Mirror.PageSize)
	}
	return nil
}

// LogoAPI converts the API section into transport settings.
func (c *Config) LogoAPI() logoapi.Config {
	out := logoapi.DefaultConfig()
	out.BaseURL = c.API.BaseURL
	out.Username = c.API.Username
	out.Password = c.API.Password
	out.FirmNo = c.API.FirmNo
	out.ClientID = c.API.ClientID
	out.ClientSecret = c.API.ClientSecret
	if c.API.Timeout > 0 {
		out.Timeout = c.API.Timeout
	}
	return out
}

// Logger converts the log section into logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:       c.Log.Level,
		Development: c.Log.Development,
		OutputPaths: []string{"stderr"},
	}
}
