package transfer

import (
	"context"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/accounts"
	"github.com/anoma/transferd/walletClient/errors"
	"github.com/anoma/transferd/walletClient/metrics"
	"github.com/anoma/transferd/walletClient/store"
	"github.com/anoma/transferd/walletClient/txbuilder"
)

// SubmitArgs is what a caller asks for: move Amount of the account's token to Target.
type SubmitArgs struct {
	Account   accounts.DerivedAccount
	Target    string
	Amount    math.LegacyDec
	Memo      string
	Shielded  bool
	UseFaucet bool
	Channel   string
}

// Options configures a Submitter.
type Options struct {
	Epochs        EpochSource
	Builder       TxBuilder
	Coordinator   *Coordinator
	Tokens        txbuilder.Tokens
	FaucetAddress string
	Balances      BalanceRefresher
	Journal       Journal // optional
	State         *State
	History       *History
	Metrics       *metrics.Metrics // optional
}

// Submitter drives one transfer from request to Confirmed or Failed.
type Submitter struct {
	logger        zerolog.Logger
	epochs        EpochSource
	builder       TxBuilder
	coordinator   *Coordinator
	tokens        txbuilder.Tokens
	faucetAddress string
	balances      BalanceRefresher
	journal       Journal
	state         *State
	history       *History
	metrics       *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewSubmitter creates a Submitter from opts.
func NewSubmitter(opts Options, logger zerolog.Logger) *Submitter {
	state := opts.State
	if state == nil {
		state = NewState()
	}
	history := opts.History
	if history == nil {
		history = NewHistory()
	}
	return &Submitter{
		logger:        logger.With().Str("component", "submitter").Logger(),
		epochs:        opts.Epochs,
		builder:       opts.Builder,
		coordinator:   opts.Coordinator,
		tokens:        opts.Tokens,
		faucetAddress: opts.FaucetAddress,
		balances:      opts.Balances,
		journal:       opts.Journal,
		state:         state,
		history:       history,
		metrics:       opts.Metrics,
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}
}

func (s *Submitter) State() *State     { return s.state }
func (s *Submitter) History() *History { return s.history }

// Submit runs the whole pipeline for args and blocks until it resolves.
// The state enters Pending immediately and ends Confirmed or Failed; the
// returned error is the message recorded on Failed.
func (s *Submitter) Submit(ctx context.Context, args SubmitArgs) (TransferOutcome, error) {
	id := s.newID()
	source := args.Account.EstablishedAddress
	if args.UseFaucet {
		source = s.faucetAddress
	}

	s.state.begin(id)
	logger := s.logger.With().Str("submission_id", id).Logger()
	logger.Info().
		Str("source", source).
		Str("target", args.Target).
		Str("token", args.Account.TokenType).
		Str("amount", decString(args.Amount)).
		Bool("faucet", args.UseFaucet).
		Msg("submission started")

	s.journalBegin(ctx, logger, store.SubmissionRecord{
		SubmissionID: id,
		Source:       source,
		Target:       args.Target,
		Token:        args.Account.TokenType,
		Amount:       decString(args.Amount),
		Faucet:       args.UseFaucet,
	})

	var txHash string
	outcome, err := s.run(ctx, logger, args, source, &txHash)
	if err != nil {
		logger.Warn().Err(err).Str("code", string(errors.CodeOf(err))).Msg("submission failed")
		if !s.state.fail(id, err.Error()) {
			logger.Debug().Msg("failure of superseded submission ignored")
		}
		s.journalFinish(ctx, logger, id, store.SubmissionResult{
			Status:   store.StatusFailed,
			TxHash:   txHash,
			ErrorMsg: err.Error(),
		})
		s.metrics.SubmissionResolved(strings.ToLower(string(errors.CodeOf(err))))
		return TransferOutcome{}, err
	}

	s.history.Append(outcome)
	s.balances.RefreshBalance(args.Account)

	var events *TransferEvents
	if !args.UseFaucet {
		events = &TransferEvents{Gas: outcome.Gas, AppliedHash: outcome.AppliedHash}
	}
	if !s.state.confirm(id, events) {
		logger.Info().Msg("confirmed submission was superseded")
	}

	s.journalFinish(ctx, logger, id, store.SubmissionResult{
		Status: store.StatusConfirmed,
		TxHash: outcome.AppliedHash,
		Height: outcome.Height,
	})
	s.metrics.SubmissionResolved(metrics.OutcomeConfirmed)
	return outcome, nil
}

func (s *Submitter) run(ctx context.Context, logger zerolog.Logger, args SubmitArgs, source string, txHash *string) (TransferOutcome, error) {
	req, err := s.prepare(args, source)
	if err != nil {
		return TransferOutcome{}, err
	}

	epoch, err := s.epochs.QueryEpoch(ctx)
	if err != nil {
		if errors.IsTransport(err) {
			return TransferOutcome{}, err
		}
		return TransferOutcome{}, errors.NewTransportError("failed to fetch epoch", err)
	}
	logger.Debug().Uint64("epoch", epoch).Msg("epoch fetched")

	tx, err := s.builder.MakeTransfer(ctx, txbuilder.Params{
		Source:     req.Source,
		Target:     req.Target,
		Token:      req.TokenAddress,
		Amount:     req.Amount,
		Epoch:      epoch,
		Memo:       req.Memo,
		SigningKey: req.SigningKey,
	})
	if err != nil {
		if errors.IsBuilder(err) {
			return TransferOutcome{}, err
		}
		return TransferOutcome{}, errors.NewBuilderError("failed to build transfer", err)
	}
	*txHash = tx.Hash
	logger.Info().Str("tx_hash", tx.Hash).Msg("transfer built")

	confirmed, err := s.coordinator.Await(ctx, tx)
	if err != nil {
		return TransferOutcome{}, err
	}

	return TransferOutcome{
		Source:      req.Source,
		Target:      req.Target,
		Type:        req.Type(),
		Amount:      req.Amount,
		Height:      confirmed.Height,
		TokenType:   req.Token,
		Gas:         confirmed.Gas,
		AppliedHash: confirmed.AppliedHash,
		Memo:        req.Memo,
		Timestamp:   s.now(),
	}, nil
}

func (s *Submitter) prepare(args SubmitArgs, source string) (TransferRequest, error) {
	if args.Shielded && args.Channel != "" {
		return TransferRequest{}, errors.NewValidationError("a transfer cannot be both shielded and IBC")
	}
	if source == "" {
		if args.UseFaucet {
			return TransferRequest{}, errors.NewValidationError("no faucet address configured")
		}
		return TransferRequest{}, errors.NewValidationError("account " + args.Account.ID + " has no established address")
	}
	if args.Amount.IsNil() {
		return TransferRequest{}, errors.NewValidationError("amount is required")
	}

	tokenAddress, err := s.tokens.Address(args.Account.TokenType)
	if err != nil {
		return TransferRequest{}, err
	}

	return TransferRequest{
		Source:       source,
		Target:       args.Target,
		Token:        args.Account.TokenType,
		TokenAddress: tokenAddress,
		Amount:       args.Amount,
		Memo:         args.Memo,
		SigningKey:   args.Account.SigningKey,
		Shielded:     args.Shielded,
		Channel:      args.Channel,
	}, nil
}

func (s *Submitter) journalBegin(ctx context.Context, logger zerolog.Logger, rec store.SubmissionRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Begin(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn().Err(err).Msg("failed to journal submission")
	}
}

func (s *Submitter) journalFinish(ctx context.Context, logger zerolog.Logger, id string, res store.SubmissionResult) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Finish(context.WithoutCancel(ctx), id, res); err != nil {
		logger.Warn().Err(err).Msg("failed to journal submission result")
	}
}

func decString(d math.LegacyDec) string {
	if d.IsNil() {
		return ""
	}
	return d.String()
}
