package txbuilder

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/constant"
	"github.com/anoma/transferd/walletClient/errors"
)

// Params are the plaintext inputs of one transfer. SigningKey is borrowed for
// the duration of MakeTransfer only.
type Params struct {
	Source     string
	Target     string
	Token      string
	Amount     math.LegacyDec
	Epoch      uint64
	Memo       string
	SigningKey []byte
}

// SignedTransaction is the wire payload of a transfer and its content hash.
type SignedTransaction struct {
	Bytes []byte
	Hash  string
}

type transferBody struct {
	ChainID string        `json:"chain_id"`
	Source  string        `json:"source"`
	Target  string        `json:"target"`
	Token   string        `json:"token"`
	Amount  string        `json:"amount"`
	Epoch   uint64        `json:"epoch"`
	Memo    string        `json:"memo,omitempty"`
	PubKey  crypto.PubKey `json:"pub_key"`
}

type signedEnvelope struct {
	Body      []byte `json:"body"`
	Signature []byte `json:"signature"`
}

// Builder signs transfers for one chain.
type Builder struct {
	logger  zerolog.Logger
	chainID string
}

// NewBuilder creates a Builder producing transactions for chainID.
func NewBuilder(chainID string, logger zerolog.Logger) *Builder {
	return &Builder{
		logger:  logger.With().Str("component", "tx_builder").Logger(),
		chainID: chainID,
	}
}

// MakeTransfer validates p, signs it and returns the encoded transaction.
func (b *Builder) MakeTransfer(_ context.Context, p Params) (SignedTransaction, error) {
	if err := ValidateAddress(p.Source); err != nil {
		return SignedTransaction{}, errors.NewBuilderError("invalid source address", err)
	}
	if err := ValidateAddress(p.Target); err != nil {
		return SignedTransaction{}, errors.NewBuilderError("invalid target address", err)
	}
	if p.Token == "" {
		return SignedTransaction{}, errors.NewBuilderError("token address is empty", nil)
	}
	if p.Amount.IsNil() || p.Amount.IsNegative() {
		return SignedTransaction{}, errors.NewBuilderError("amount must be nonnegative", nil)
	}
	micro, err := ToMicro(p.Amount)
	if err != nil {
		return SignedTransaction{}, err
	}
	if len(p.SigningKey) != ed25519.PrivateKeySize {
		return SignedTransaction{}, errors.NewBuilderError(
			fmt.Sprintf("signing key must be %d bytes, got %d", ed25519.PrivateKeySize, len(p.SigningKey)), nil)
	}

	priv := ed25519.PrivKey(p.SigningKey)
	body, err := cmtjson.Marshal(transferBody{
		ChainID: b.chainID,
		Source:  p.Source,
		Target:  p.Target,
		Token:   p.Token,
		Amount:  micro.String(),
		Epoch:   p.Epoch,
		Memo:    p.Memo,
		PubKey:  priv.PubKey(),
	})
	if err != nil {
		return SignedTransaction{}, errors.NewBuilderError("failed to encode transfer", err)
	}

	sig, err := priv.Sign(body)
	if err != nil {
		return SignedTransaction{}, errors.NewBuilderError("failed to sign transfer", err)
	}

	txBytes, err := cmtjson.Marshal(signedEnvelope{Body: body, Signature: sig})
	if err != nil {
		return SignedTransaction{}, errors.NewBuilderError("failed to encode signed transfer", err)
	}

	hash := cmtbytes.HexBytes(cmttypes.Tx(txBytes).Hash()).String()
	b.logger.Debug().Str("tx_hash", hash).Uint64("epoch", p.Epoch).Msg("transfer built")

	return SignedTransaction{Bytes: txBytes, Hash: hash}, nil
}

// ToMicro converts a display amount to its integral micro-unit representation.
func ToMicro(amount math.LegacyDec) (math.Int, error) {
	micro := amount.MulInt(math.NewIntWithDecimal(1, constant.MicroScale))
	if !micro.IsInteger() {
		return math.Int{}, errors.NewBuilderError(
			fmt.Sprintf("amount %s has more than %d decimal places", amount, constant.MicroScale), nil)
	}
	return micro.TruncateInt(), nil
}

// ValidateAddress checks that addr is a well formed bech32m string.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address is empty")
	}
	_, _, version, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return err
	}
	if version != bech32.VersionM {
		return fmt.Errorf("address %s is not bech32m encoded", addr)
	}
	return nil
}
