// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	RPCURL       string `mapstructure:"rpc_url"`
	APIBaseURL   string `mapstructure:"api_base_url"`
	APITimeoutMs int    `mapstructure:"api_timeout_ms"`
	APIRateLimit int    `mapstructure:"api_rate_limit"` // requests per minute
	Retries      int    `mapstructure:"retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
	PageSize     int    `mapstructure:"page_size"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
	ExportDir    string `mapstructure:"export_dir"`
}

const (
	DefaultRPCURL       = "https://api.mainnet-beta.solana.com"
	DefaultAPIBaseURL   = "https://frontend-api.pump.fun"
	DefaultAPITimeoutMs = 10000
	DefaultRetries      = 3
	DefaultRetryDelayMs = 500
	DefaultPageSize     = 200
	DefaultExportDir    = "exports"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"rpc_url":        DefaultRPCURL,
		"api_base_url":   DefaultAPIBaseURL,
		"api_timeout_ms": DefaultAPITimeoutMs,
		"retries":        DefaultRetries,
		"retry_delay_ms": DefaultRetryDelayMs,
		"page_size":      DefaultPageSize,
		"export_dir":     DefaultExportDir,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

// DefaultConfig returns a usable configuration when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		RPCURL:       DefaultRPCURL,
		APIBaseURL:   DefaultAPIBaseURL,
		APITimeoutMs: DefaultAPITimeoutMs,
		Retries:      DefaultRetries,
		RetryDelayMs: DefaultRetryDelayMs,
		PageSize:     DefaultPageSize,
		ExportDir:    DefaultExportDir,
	}
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is empty")
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if err := validateURL(cfg.APIBaseURL, "http"); err != nil {
		return errors.New("invalid API base URL protocol")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.APITimeoutMs <= 0 {
		return errors.New("invalid api_timeout_ms")
	}
	if cfg.APIRateLimit < 0 {
		return errors.New("invalid api_rate_limit")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.RetryDelayMs < 0 {
		return errors.New("invalid retry_delay_ms")
	}
	if cfg.PageSize <= 0 {
		return errors.New("invalid page_size")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("PUMPSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envRPC := v.GetString("RPC_URL"); envRPC != "" {
		cfg.RPCURL = envRPC
	}
	if envAPI := v.GetString("API_BASE_URL"); envAPI != "" {
		cfg.APIBaseURL = envAPI
	}
}
