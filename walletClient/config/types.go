package config

import (
	"fmt"
	"time"
)

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome string `json:"node_home"` // Node home directory (default: ~/.transferd)

	// Ledger configuration
	ChainID               string `json:"chain_id"`                // Chain ID embedded into every signed transfer
	LedgerRPCURL          string `json:"ledger_rpc_url"`          // CometBFT RPC endpoint of the ledger node
	LedgerWSEndpoint      string `json:"ledger_ws_endpoint"`      // Websocket path on the RPC endpoint (default: /websocket)
	ConfirmationTimeoutMs int    `json:"confirmation_timeout_ms"` // Bound on waiting for block inclusion (default: 10000)
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"` // Timeout for request/response calls (default: 10)

	// Transfer configuration
	FaucetAddress string            `json:"faucet_address"` // Source address used for faucet-funded transfers
	Tokens        map[string]string `json:"tokens"`         // Token symbol -> token address
	Accounts      []AccountConfig   `json:"accounts"`       // Accounts this node may submit transfers for

	// Query Server Config
	QueryServerPort int  `json:"query_server_port"` // Port for HTTP query server (default: 8080)
	MetricsEnabled  bool `json:"metrics_enabled"`   // Expose /metrics on the query server

	// Submission journal
	DatabaseEnabled bool `json:"database_enabled"` // Journal submission attempts into SQLite
}

// AccountConfig describes an account owned by this node. The signing key is
// read from SigningKeyFile at startup and is never written back.
type AccountConfig struct {
	ID             string `json:"id"`
	Alias          string `json:"alias"`
	Address        string `json:"address"`
	Token          string `json:"token"`
	SigningKeyFile string `json:"signing_key_file"`
}

// ConfirmationTimeout returns the confirmation deadline as a duration.
func (c *Config) ConfirmationTimeout() time.Duration {
	return time.Duration(c.ConfirmationTimeoutMs) * time.Millisecond
}

// RequestTimeout returns the per-request timeout for RPC calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// GetAccount returns the configured account with the given id.
func (c *Config) GetAccount(id string) (AccountConfig, error) {
	for _, acc := range c.Accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return AccountConfig{}, fmt.Errorf("no account configured with id %s", id)
}
