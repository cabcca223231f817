package core

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/accounts"
	"github.com/anoma/transferd/walletClient/api"
	"github.com/anoma/transferd/walletClient/cache"
	"github.com/anoma/transferd/walletClient/config"
	"github.com/anoma/transferd/walletClient/constant"
	"github.com/anoma/transferd/walletClient/db"
	"github.com/anoma/transferd/walletClient/errors"
	"github.com/anoma/transferd/walletClient/ledger"
	"github.com/anoma/transferd/walletClient/metrics"
	"github.com/anoma/transferd/walletClient/store"
	"github.com/anoma/transferd/walletClient/transfer"
	"github.com/anoma/transferd/walletClient/txbuilder"
)

// TransferClient owns every component of the transfer daemon.
type TransferClient struct {
	ctx context.Context
	log zerolog.Logger
	cfg *config.Config

	ledger    *ledger.Client
	accounts  *accounts.Service
	submitter *transfer.Submitter
	db        *db.DB
	journal   *db.SubmissionJournal
	metrics   http.Handler
}

// NewTransferClient wires the pipeline described by cfg. No network traffic
// happens until a submission or balance query is made.
func NewTransferClient(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*TransferClient, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("config is required", nil)
	}

	ledgerClient, err := ledger.NewClient(cfg.LedgerRPCURL, cfg.LedgerWSEndpoint, cfg.RequestTimeout(), log)
	if err != nil {
		return nil, err
	}
	subscriber := ledger.NewSubscriber(cfg.LedgerRPCURL, cfg.LedgerWSEndpoint, cfg.RequestTimeout(), log)

	tokens := txbuilder.Tokens(cfg.Tokens)
	accountService := accounts.NewService(ledgerClient, tokens, cache.New(log), cfg.RequestTimeout(), log)
	derived, err := accounts.LoadAccounts(cfg.NodeHome, cfg.Accounts)
	if err != nil {
		return nil, err
	}
	for _, acc := range derived {
		if err := accountService.Register(acc); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to register account %s", acc.ID), err)
		}
	}

	tc := &TransferClient{
		ctx:      ctx,
		log:      log,
		cfg:      cfg,
		ledger:   ledgerClient,
		accounts: accountService,
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if m, err = metrics.New(reg); err != nil {
			return nil, errors.NewConfigError("failed to register metrics", err)
		}
		tc.metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	opts := transfer.Options{
		Epochs:        ledgerClient,
		Builder:       txbuilder.NewBuilder(cfg.ChainID, log),
		Coordinator:   transfer.NewCoordinator(ledgerClient, subscriber, cfg.ConfirmationTimeout(), m, log),
		Tokens:        tokens,
		FaucetAddress: cfg.FaucetAddress,
		Balances:      accountService,
		Metrics:       m,
	}

	if cfg.DatabaseEnabled {
		database, err := db.OpenFileDB(filepath.Join(cfg.NodeHome, constant.DatabasesSubdir), constant.DatabaseFileName, true)
		if err != nil {
			return nil, errors.NewDatabaseError("failed to open submission journal", err)
		}
		tc.db = database
		tc.journal = db.NewSubmissionJournal(database)
		opts.Journal = tc.journal
	}

	tc.submitter = transfer.NewSubmitter(opts, log)
	return tc, nil
}

// Start serves the query API and blocks until the client context is done.
func (tc *TransferClient) Start() error {
	tc.log.Info().Msg("🚀 Starting transfer client...")

	for _, acc := range tc.accounts.List() {
		tc.accounts.RefreshBalance(acc)
	}

	states, cancel := tc.submitter.State().Subscribe()
	defer cancel()
	go tc.logStates(states)

	server := api.NewServer(tc, tc.log, tc.cfg.QueryServerPort, tc.metrics)
	if err := server.Start(); err != nil {
		tc.Close()
		return fmt.Errorf("failed to start query server: %w", err)
	}

	tc.log.Info().Msg("✅ Initialization complete. Waiting for submissions...")

	<-tc.ctx.Done()

	tc.log.Info().Msg("🛑 Shutting down transfer client...")
	if err := server.Stop(); err != nil {
		tc.log.Warn().Err(err).Msg("query server shutdown failed")
	}
	return tc.Close()
}

// Close waits for background balance refreshes and releases the journal.
func (tc *TransferClient) Close() error {
	tc.accounts.Wait()
	if tc.db == nil {
		return nil
	}
	return tc.db.Close()
}

func (tc *TransferClient) logStates(states <-chan transfer.SubmissionState) {
	for st := range states {
		evt := tc.log.Info().Str("phase", string(st.Phase)).Str("submission_id", st.SubmissionID)
		if st.Error != "" {
			evt = evt.Str("error", st.Error)
		}
		evt.Msg("submission state changed")
	}
}

// Submit resolves the request's account and runs one transfer to completion.
func (tc *TransferClient) Submit(ctx context.Context, req api.SubmitTransferRequest) (transfer.TransferOutcome, error) {
	acc, err := tc.accounts.Get(req.AccountID)
	if err != nil {
		return transfer.TransferOutcome{}, err
	}
	amount, err := math.LegacyNewDecFromStr(req.Amount)
	if err != nil {
		return transfer.TransferOutcome{}, errors.NewValidationError(fmt.Sprintf("invalid amount %s", req.Amount))
	}

	return tc.submitter.Submit(ctx, transfer.SubmitArgs{
		Account:   acc,
		Target:    req.Target,
		Amount:    amount,
		Memo:      req.Memo,
		Shielded:  req.Shielded,
		UseFaucet: req.UseFaucet,
		Channel:   req.Channel,
	})
}

// SubmitTransfer implements api.TransferClientInterface. The submission runs
// on the client context so a dropped HTTP caller does not abort it.
func (tc *TransferClient) SubmitTransfer(_ context.Context, req api.SubmitTransferRequest) (transfer.SubmissionState, error) {
	if _, err := tc.Submit(tc.ctx, req); err != nil {
		return transfer.SubmissionState{}, err
	}
	return tc.submitter.State().Snapshot(), nil
}

func (tc *TransferClient) GetSubmissionState() transfer.SubmissionState {
	return tc.submitter.State().Snapshot()
}

func (tc *TransferClient) ClearSubmission() transfer.SubmissionState {
	tc.submitter.State().Clear()
	return tc.submitter.State().Snapshot()
}

func (tc *TransferClient) GetTransferHistory() []transfer.TransferOutcome {
	return tc.submitter.History().List()
}

// GetBalance returns the cached balance of accountID, querying the ledger
// first when refresh is set or nothing is cached yet.
func (tc *TransferClient) GetBalance(ctx context.Context, accountID string, refresh bool) (*cache.Balance, error) {
	acc, err := tc.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	if refresh || tc.accounts.Balance(accountID) == nil {
		if _, err := tc.accounts.FetchBalance(ctx, acc); err != nil {
			return nil, err
		}
	}
	return tc.accounts.Balance(accountID), nil
}

func (tc *TransferClient) GetRecentSubmissions(ctx context.Context, limit int) ([]store.SubmissionRecord, error) {
	if tc.journal == nil {
		return nil, errors.NewConfigError("submission journal is disabled", nil)
	}
	return tc.journal.Recent(ctx, limit)
}

// QueryEpoch returns the ledger's current epoch.
func (tc *TransferClient) QueryEpoch(ctx context.Context) (uint64, error) {
	return tc.ledger.QueryEpoch(ctx)
}

// Accounts lists the registered accounts.
func (tc *TransferClient) Accounts() []accounts.DerivedAccount {
	return tc.accounts.List()
}
