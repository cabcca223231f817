package ledger

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/errors"
)

const (
	epochPath = "/shell/epoch"

	// balances are stored as 256-bit little-endian integers
	maxAmountBytes = 32
)

// rpcClient is the request/response subset of the CometBFT RPC client used here.
type rpcClient interface {
	ABCIQuery(ctx context.Context, path string, data cmtbytes.HexBytes) (*coretypes.ResultABCIQuery, error)
	BroadcastTxSync(ctx context.Context, tx cmttypes.Tx) (*coretypes.ResultBroadcastTx, error)
}

// Client talks to a ledger node over the CometBFT RPC request/response channel.
// It serves as the epoch source, the balance source and the broadcast channel.
type Client struct {
	logger         zerolog.Logger
	rpc            rpcClient
	requestTimeout time.Duration
}

// NewClient creates a Client for the node at remote.
func NewClient(remote, wsEndpoint string, requestTimeout time.Duration, logger zerolog.Logger) (*Client, error) {
	httpClient, err := rpchttp.New(remote, wsEndpoint)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to create rpc client for %s", remote), err)
	}
	return newClient(httpClient, requestTimeout, logger), nil
}

func newClient(rpc rpcClient, requestTimeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		logger:         logger.With().Str("component", "ledger_client").Logger(),
		rpc:            rpc,
		requestTimeout: requestTimeout,
	}
}

// QueryEpoch returns the ledger's current epoch.
func (c *Client) QueryEpoch(ctx context.Context) (uint64, error) {
	value, err := c.abciQuery(ctx, epochPath)
	if err != nil {
		return 0, err
	}
	if len(value) != 8 {
		return 0, errors.NewTransportError(
			fmt.Sprintf("malformed epoch response: expected 8 bytes, got %d", len(value)), nil)
	}

	epoch := binary.LittleEndian.Uint64(value)
	c.logger.Debug().Uint64("epoch", epoch).Msg("epoch fetched")
	return epoch, nil
}

// QueryBalance returns the balance of owner in token, in micro units.
// An owner that never held the token has a zero balance.
func (c *Client) QueryBalance(ctx context.Context, token, owner string) (math.Int, error) {
	value, err := c.abciQuery(ctx, balancePath(token, owner))
	if err != nil {
		return math.Int{}, err
	}
	if len(value) == 0 {
		return math.ZeroInt(), nil
	}
	if len(value) > maxAmountBytes {
		return math.Int{}, errors.NewTransportError(
			fmt.Sprintf("malformed balance response: %d bytes", len(value)), nil)
	}
	return math.NewIntFromBigInt(leToBigInt(value)), nil
}

// BroadcastTx submits tx and waits for the node's CheckTx verdict only.
// A nil error means the node accepted the transaction, not that it was applied.
func (c *Client) BroadcastTx(ctx context.Context, tx []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	res, err := c.rpc.BroadcastTxSync(ctx, cmttypes.Tx(tx))
	if err != nil {
		return errors.NewTransportError("broadcast failed", err)
	}
	if res.Code != 0 {
		return errors.NewTransportError(
			fmt.Sprintf("transaction rejected with code %d: %s", res.Code, res.Log), nil).
			WithContext("code", res.Code)
	}

	c.logger.Info().Str("tx_hash", res.Hash.String()).Msg("broadcast accepted")
	return nil
}

func (c *Client) abciQuery(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	res, err := c.rpc.ABCIQuery(ctx, path, nil)
	if err != nil {
		return nil, errors.NewTransportError(fmt.Sprintf("abci query %s failed", path), err)
	}
	if res.Response.Code != 0 {
		return nil, errors.NewTransportError(
			fmt.Sprintf("abci query %s returned code %d: %s", path, res.Response.Code, res.Response.Log), nil)
	}
	return res.Response.Value, nil
}

func balancePath(token, owner string) string {
	return fmt.Sprintf("/shell/value/#%s/balance/#%s", token, owner)
}

func leToBigInt(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}
