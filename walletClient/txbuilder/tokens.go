package txbuilder

import (
	"fmt"

	"github.com/anoma/transferd/walletClient/errors"
)

// Tokens maps a token symbol to its address on the ledger.
type Tokens map[string]string

// Address returns the address of symbol.
func (t Tokens) Address(symbol string) (string, error) {
	addr, ok := t[symbol]
	if !ok || addr == "" {
		return "", errors.NewBuilderError(fmt.Sprintf("unknown token %s", symbol), nil)
	}
	return addr, nil
}
