package constant

import "os"

// <NodeDir>/                    (e.g., /home/wallet/.transferd)
// └── config/
//	└── transferd_config.json
// └── databases/
//	└── submissions.db

const (
	NodeDir = ".transferd"

	ConfigSubdir   = "config"
	ConfigFileName = "transferd_config.json"

	DatabasesSubdir  = "databases"
	DatabaseFileName = "submissions.db"

	// EnvPrefix is the prefix of environment variables overriding config file values.
	EnvPrefix = "TRANSFERD"
)

var DefaultNodeHome = os.ExpandEnv("$HOME/") + NodeDir

// MicroScale is the number of decimal places between a display amount and its
// on-ledger micro-unit representation.
const MicroScale = 6

// LedgerTransferTimeoutMs is the default bound on waiting for block inclusion.
const LedgerTransferTimeoutMs = 10000
