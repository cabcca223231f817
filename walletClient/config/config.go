package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/anoma/transferd/walletClient/constant"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	// Set defaults for ledger endpoints
	if cfg.LedgerRPCURL == "" {
		cfg.LedgerRPCURL = "http://127.0.0.1:26657"
	}
	if cfg.LedgerWSEndpoint == "" {
		cfg.LedgerWSEndpoint = "/websocket"
	}

	u, err := url.Parse(cfg.LedgerRPCURL)
	if err != nil {
		return fmt.Errorf("invalid ledger rpc url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "tcp":
	default:
		return fmt.Errorf("ledger rpc url must use http, https or tcp scheme")
	}
	if !strings.HasPrefix(cfg.LedgerWSEndpoint, "/") {
		return fmt.Errorf("ledger ws endpoint must start with '/'")
	}

	// Set defaults for timeouts
	if cfg.ConfirmationTimeoutMs == 0 {
		cfg.ConfirmationTimeoutMs = constant.LedgerTransferTimeoutMs
	}
	if cfg.ConfirmationTimeoutMs < 0 {
		return fmt.Errorf("confirmation timeout must be positive")
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = 10
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	// Set defaults for query server
	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}

	if cfg.Tokens == nil {
		cfg.Tokens = make(map[string]string)
	}

	seen := make(map[string]struct{}, len(cfg.Accounts))
	for i, acc := range cfg.Accounts {
		if acc.ID == "" {
			return fmt.Errorf("account at index %d has no id", i)
		}
		if _, dup := seen[acc.ID]; dup {
			return fmt.Errorf("duplicate account id %s", acc.ID)
		}
		seen[acc.ID] = struct{}{}
	}

	return nil
}

// Save writes the given config to <NodeHome>/config/transferd_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, constant.ConfigSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, constant.ConfigFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads, validates and returns the config from <BasePath>/config/transferd_config.json.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, constant.ConfigSubdir, constant.ConfigFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.NodeHome == "" {
		cfg.NodeHome = basePath
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays TRANSFERD_* environment variables on top of cfg,
// e.g. TRANSFERD_LEDGER_RPC_URL overrides ledger_rpc_url.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(constant.EnvPrefix)
	v.AutomaticEnv()

	stringKeys := map[string]*string{
		"log_format":         &cfg.LogFormat,
		"node_home":          &cfg.NodeHome,
		"chain_id":           &cfg.ChainID,
		"ledger_rpc_url":     &cfg.LedgerRPCURL,
		"ledger_ws_endpoint": &cfg.LedgerWSEndpoint,
		"faucet_address":     &cfg.FaucetAddress,
	}
	for key, dst := range stringKeys {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	intKeys := map[string]*int{
		"log_level":               &cfg.LogLevel,
		"confirmation_timeout_ms": &cfg.ConfirmationTimeoutMs,
		"request_timeout_seconds": &cfg.RequestTimeoutSeconds,
		"query_server_port":       &cfg.QueryServerPort,
	}
	for key, dst := range intKeys {
		if !v.IsSet(key) {
			continue
		}
		n, err := cast.ToIntE(v.GetString(key))
		if err != nil {
			return fmt.Errorf("invalid value for %s_%s: %w", constant.EnvPrefix, strings.ToUpper(key), err)
		}
		*dst = n
	}

	boolKeys := map[string]*bool{
		"log_sampler":      &cfg.LogSampler,
		"metrics_enabled":  &cfg.MetricsEnabled,
		"database_enabled": &cfg.DatabaseEnabled,
	}
	for key, dst := range boolKeys {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	return nil
}
