// Package config loads nftlens settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/pkg/analytics"
	"github.com/nftlens/cli/pkg/locator"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "NFTLENS_CONFIG"
	EnvAPIKey     = "NFTLENS_API_KEY"
	EnvBaseURL    = "NFTLENS_BASE_URL"
	EnvDomain     = "NFTLENS_MARKETPLACE_DOMAIN"
	EnvHostMatch  = "NFTLENS_HOST_MATCH"
	EnvCDPURL     = "NFTLENS_CDP_URL"
	EnvLogLevel   = "NFTLENS_LOG_LEVEL"
	EnvLogFormat  = "NFTLENS_LOG_FORMAT"
)

// APIKeyStorageKey is the key-value store key the API key lives under.
const APIKeyStorageKey = "nft_analytics_api_key"

type Config struct {
	API         APIConfig         `yaml:"api"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Defaults    DefaultsConfig    `yaml:"defaults"`
	CDPURL      string            `yaml:"cdp_url" validate:"omitempty,url"`
	LogLevel    string            `yaml:"log_level" validate:"omitempty,loglevel"`
	LogFormat   string            `yaml:"log_format" validate:"omitempty,oneof=console json"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

type MarketplaceConfig struct {
	Domain    string `yaml:"domain" validate:"required,hostname"`
	HostMatch string `yaml:"host_match" validate:"omitempty,oneof=contains domain exact"`
}

// DefaultsConfig holds the values used when the matching command flag is not set.
type DefaultsConfig struct {
	Chain     string `yaml:"chain" validate:"omitempty,chain"`
	Metric    string `yaml:"metric" validate:"omitempty,metric"`
	TimeRange string `yaml:"time_range" validate:"omitempty,timerange"`
	Currency  string `yaml:"currency" validate:"omitempty,oneof=usd eth"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: analytics.DefaultBaseURL,
			Timeout: analytics.DefaultRequestTimeout,
		},
		Marketplace: MarketplaceConfig{
			Domain:    locator.DefaultDomain,
			HostMatch: string(locator.HostMatchContains),
		},
		Defaults: DefaultsConfig{
			Chain:     "ethereum",
			Metric:    "volume",
			TimeRange: "24h",
			Currency:  "usd",
		},
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// GetConfigPath picks the config file to load.
// Priority:
// 1. the --config flag
// 2. NFTLENS_CONFIG
// 3. $XDG_CONFIG_HOME/nftlens/config.yaml (or ~/.config/nftlens/config.yaml) if it exists
// An explicitly named file is returned even if it does not exist so Load can report it.
func GetConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, "nftlens", "config.yaml")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Load builds the configuration: defaults, then the YAML file at path (if any),
// then environment overrides. A .env file in the working directory is loaded
// first; variables already set in the environment win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		EnvBaseURL:   &c.API.BaseURL,
		EnvDomain:    &c.Marketplace.Domain,
		EnvHostMatch: &c.Marketplace.HostMatch,
		EnvCDPURL:    &c.CDPURL,
		EnvLogLevel:  &c.LogLevel,
		EnvLogFormat: &c.LogFormat,
	}
	for env, field := range overrides {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*field = v
		}
	}
}

func (c *Config) normalize() {
	c.Marketplace.Domain = strings.ToLower(strings.TrimSpace(c.Marketplace.Domain))
	c.Marketplace.HostMatch = strings.ToLower(strings.TrimSpace(c.Marketplace.HostMatch))
	c.Defaults.Chain = analytics.NormalizeChain(c.Defaults.Chain)
	c.Defaults.Currency = strings.ToLower(c.Defaults.Currency)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate checks field constraints and returns a single error listing every violation.
func Validate(cfg *Config) error {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := zerolog.ParseLevel(strings.ToLower(fl.Field().String()))
		return err == nil
	})
	_ = validate.RegisterValidation("timerange", func(fl validator.FieldLevel) bool {
		return analytics.IsTimeRange(fl.Field().String())
	})
	_ = validate.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		return analytics.IsMetric(fl.Field().String())
	})
	_ = validate.RegisterValidation("chain", func(fl validator.FieldLevel) bool {
		_, ok := analytics.ChainID(fl.Field().String())
		return ok
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Extractor returns the locator extractor described by the marketplace settings.
func (c *Config) Extractor() (locator.Extractor, error) {
	match, err := locator.ParseHostMatch(c.Marketplace.HostMatch)
	if err != nil {
		return locator.Extractor{}, err
	}
	return locator.Extractor{Domain: c.Marketplace.Domain, Match: match}, nil
}

// ResolveAPIKey returns the API key from NFTLENS_API_KEY, falling back to the store.
// An empty key with a nil error means none is configured.
func ResolveAPIKey(store host.KeyValueStore) (string, error) {
	if k := strings.TrimSpace(os.Getenv(EnvAPIKey)); k != "" {
		return k, nil
	}
	if store == nil {
		return "", nil
	}
	k, err := store.Get(APIKeyStorageKey)
	if errors.Is(err, host.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(k), nil
}
