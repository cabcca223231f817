package transfer

import (
	"time"

	"cosmossdk.io/math"

	"github.com/anoma/transferd/walletClient/ledger"
	"github.com/anoma/transferd/walletClient/txbuilder"
)

// TransferType classifies a transfer in history.
type TransferType string

const (
	TransferTypeIBC         TransferType = "IBC"
	TransferTypeShielded    TransferType = "Shielded"
	TransferTypeNonShielded TransferType = "Non-Shielded"
)

// Phase is the lifecycle position of the current submission.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseConfirmed Phase = "confirmed"
	PhaseFailed    Phase = "failed"
)

type (
	SignedTransaction = txbuilder.SignedTransaction
	ConfirmationEvent = ledger.ConfirmationEvent
)

// TransferRequest holds the resolved inputs of one submission.
type TransferRequest struct {
	Source       string
	Target       string
	Token        string // symbol
	TokenAddress string
	Amount       math.LegacyDec
	Memo         string
	SigningKey   []byte
	Shielded     bool
	Channel      string // IBC channel, empty for local transfers
}

// Type derives the history classification of r.
func (r TransferRequest) Type() TransferType {
	switch {
	case r.Channel != "":
		return TransferTypeIBC
	case r.Shielded:
		return TransferTypeShielded
	default:
		return TransferTypeNonShielded
	}
}

// TransferOutcome is one confirmed transfer in history. It is never mutated
// after being appended.
type TransferOutcome struct {
	Source      string         `json:"source"`
	Target      string         `json:"target"`
	Type        TransferType   `json:"type"`
	Amount      math.LegacyDec `json:"amount"`
	Height      uint64         `json:"height"`
	TokenType   string         `json:"token_type"`
	Gas         math.LegacyDec `json:"gas"`
	AppliedHash string         `json:"applied_hash"`
	Memo        string         `json:"memo"`
	Timestamp   time.Time      `json:"timestamp"`
}

// TransferEvents is the transient summary of the last confirmed non-faucet submission.
type TransferEvents struct {
	Gas         math.LegacyDec `json:"gas"`
	AppliedHash string         `json:"applied_hash"`
}

// SubmissionState is the observable state of the current submission.
type SubmissionState struct {
	Phase        Phase           `json:"phase"`
	SubmissionID string          `json:"submission_id,omitempty"`
	Error        string          `json:"error,omitempty"`
	Events       *TransferEvents `json:"events,omitempty"`
}
