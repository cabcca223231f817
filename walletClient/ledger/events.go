package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/math"

	"github.com/anoma/transferd/walletClient/constant"
	"github.com/anoma/transferd/walletClient/errors"
)

// Attribute keys of the "applied" event emitted when a transaction lands in a block.
const (
	AttrGasUsed = "applied.gas_used"
	AttrHash    = "applied.hash"
	AttrHeight  = "applied.height"
)

// ConfirmationEvent is the decoded block inclusion of one transaction.
type ConfirmationEvent struct {
	Gas         math.LegacyDec `json:"gas"`
	AppliedHash string         `json:"applied_hash"`
	Height      uint64         `json:"height"`
}

// AppliedTxQuery returns the event bus query matching the block that applies hash.
func AppliedTxQuery(hash string) string {
	return fmt.Sprintf("tm.event='NewBlock' AND %s='%s'", AttrHash, hash)
}

// ParseAppliedEvent decodes the applied.* attributes belonging to hash from a
// NewBlock event. A block applying several transactions carries one value per
// transaction under each key. An empty hash selects the first applied
// transaction. Gas is reported in micro units and converted to whole units.
func ParseAppliedEvent(events map[string][]string, hash string) (ConfirmationEvent, error) {
	hashes := events[AttrHash]
	if len(hashes) == 0 {
		return ConfirmationEvent{}, errors.NewProtocolError(fmt.Sprintf("event attribute %s missing", AttrHash), nil)
	}

	idx := 0
	if hash != "" {
		idx = -1
		for i, h := range hashes {
			if strings.EqualFold(h, hash) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ConfirmationEvent{}, errors.NewProtocolError(
				fmt.Sprintf("applied hashes %v do not include transaction hash %s", hashes, hash), nil)
		}
	}

	gasRaw, err := attrAt(events, AttrGasUsed, idx)
	if err != nil {
		return ConfirmationEvent{}, err
	}
	heightRaw, err := attrAt(events, AttrHeight, idx)
	if err != nil {
		return ConfirmationEvent{}, err
	}

	gasUsed, ok := math.NewIntFromString(gasRaw)
	if !ok || gasUsed.IsNegative() {
		return ConfirmationEvent{}, errors.NewProtocolError(fmt.Sprintf("malformed %s %q", AttrGasUsed, gasRaw), nil)
	}
	height, err := strconv.ParseUint(heightRaw, 10, 64)
	if err != nil {
		return ConfirmationEvent{}, errors.NewProtocolError(fmt.Sprintf("malformed %s %q", AttrHeight, heightRaw), err)
	}

	// the submitted spelling is kept so the outcome matches the signed tx hash
	applied := hashes[idx]
	if hash != "" {
		applied = hash
	}

	return ConfirmationEvent{
		Gas:         math.LegacyNewDecFromIntWithPrec(gasUsed, constant.MicroScale),
		AppliedHash: applied,
		Height:      height,
	}, nil
}

// attrAt returns the idx-th value of key. Attributes shared by the whole
// block, such as the height, may carry a single value.
func attrAt(events map[string][]string, key string, idx int) (string, error) {
	values := events[key]
	var v string
	switch {
	case idx < len(values):
		v = values[idx]
	case len(values) == 1:
		v = values[0]
	}
	if v == "" {
		return "", errors.NewProtocolError(fmt.Sprintf("event attribute %s missing", key), nil)
	}
	return v, nil
}
