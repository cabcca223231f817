package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoma/transferd/walletClient/accounts"
	ledgererrors "github.com/anoma/transferd/walletClient/errors"
	"github.com/anoma/transferd/walletClient/metrics"
	"github.com/anoma/transferd/walletClient/store"
	"github.com/anoma/transferd/walletClient/txbuilder"
)

var fixedNow = time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

type harness struct {
	epochs      *MockEpochSource
	builder     *MockTxBuilder
	broadcaster *MockBroadcaster
	balances    *MockBalanceRefresher
	subscriber  *countingSubscriber
	timer       *manualTimer
	journal     *memoryJournal
	registry    *prometheus.Registry
	submitter   *Submitter
	account     accounts.DerivedAccount
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		epochs:      NewMockEpochSource(ctrl),
		builder:     NewMockTxBuilder(ctrl),
		broadcaster: NewMockBroadcaster(ctrl),
		balances:    NewMockBalanceRefresher(ctrl),
		subscriber:  &countingSubscriber{},
		timer:       newManualTimer(),
		journal:     newMemoryJournal(),
		registry:    prometheus.NewRegistry(),
		account: accounts.DerivedAccount{
			ID:                 "acc-1",
			Alias:              "alice",
			EstablishedAddress: "addrA",
			TokenType:          "NAM",
			SigningKey:         []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		},
	}

	m, err := metrics.New(h.registry)
	require.NoError(t, err)

	coordinator := NewCoordinator(h.broadcaster, h.subscriber, 10*time.Second, m, zerolog.Nop())
	coordinator.newTimer = h.timer.start

	h.submitter = NewSubmitter(Options{
		Epochs:        h.epochs,
		Builder:       h.builder,
		Coordinator:   coordinator,
		Tokens:        txbuilder.Tokens{"NAM": "tnam1nam"},
		FaucetAddress: "faucetAddr",
		Balances:      h.balances,
		Journal:       h.journal,
		Metrics:       m,
	}, zerolog.Nop())
	h.submitter.now = func() time.Time { return fixedNow }
	h.submitter.newID = func() string { return "sub-1" }
	return h
}

// expectConfirmed wires epoch, build and a broadcast that gets applied at height 1234.
func (h *harness) expectConfirmed(t *testing.T, expectedSource string) {
	h.epochs.EXPECT().QueryEpoch(gomock.Any()).Return(uint64(42), nil)
	h.builder.EXPECT().MakeTransfer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p txbuilder.Params) (SignedTransaction, error) {
			assert.Equal(t, expectedSource, p.Source)
			assert.Equal(t, "addrB", p.Target)
			assert.Equal(t, "tnam1nam", p.Token)
			assert.True(t, p.Amount.Equal(math.LegacyNewDec(100)))
			assert.Equal(t, uint64(42), p.Epoch)
			assert.Equal(t, h.account.SigningKey, p.SigningKey)
			return testTx, nil
		})
	h.broadcaster.EXPECT().BroadcastTx(gomock.Any(), testTx.Bytes).DoAndReturn(func(context.Context, []byte) error {
		h.subscriber.current().emit(appliedEvent(testHash, "1500000", "1234"))
		return nil
	})
}

func (h *harness) args() SubmitArgs {
	return SubmitArgs{
		Account: h.account,
		Target:  "addrB",
		Amount:  math.LegacyNewDec(100),
		Memo:    "lunch",
	}
}

func (h *harness) submissions(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := h.registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "transferd_submissions_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestSubmitConfirmed(t *testing.T) {
	h := newHarness(t)
	h.expectConfirmed(t, "addrA")
	h.balances.EXPECT().RefreshBalance(h.account).Times(1)

	outcome, err := h.submitter.Submit(context.Background(), h.args())
	require.NoError(t, err)

	history := h.submitter.History().List()
	require.Len(t, history, 1)
	assert.Equal(t, outcome, history[0])
	assert.Equal(t, "addrA", outcome.Source)
	assert.Equal(t, "addrB", outcome.Target)
	assert.Equal(t, TransferTypeNonShielded, outcome.Type)
	assert.True(t, outcome.Amount.Equal(math.LegacyNewDec(100)))
	assert.Equal(t, uint64(1234), outcome.Height)
	assert.Equal(t, "NAM", outcome.TokenType)
	assert.True(t, outcome.Gas.Equal(math.LegacyMustNewDecFromStr("1.5")))
	assert.Equal(t, testTx.Hash, outcome.AppliedHash)
	assert.Equal(t, "lunch", outcome.Memo)
	assert.Equal(t, fixedNow, outcome.Timestamp)

	state := h.submitter.State().Snapshot()
	assert.Equal(t, PhaseConfirmed, state.Phase)
	assert.Empty(t, state.Error)
	require.NotNil(t, state.Events)
	assert.Equal(t, testTx.Hash, state.Events.AppliedHash)
	assert.True(t, state.Events.Gas.Equal(outcome.Gas))

	opened, closed := h.subscriber.counts()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)

	require.Len(t, h.journal.begun, 1)
	assert.Equal(t, "addrA", h.journal.begun[0].Source)
	assert.Equal(t, store.SubmissionResult{Status: store.StatusConfirmed, TxHash: testHash, Height: 1234}, h.journal.finished["sub-1"])
	assert.Equal(t, 1.0, h.submissions(t, metrics.OutcomeConfirmed))
}

func TestSubmitFaucetOmitsEvents(t *testing.T) {
	h := newHarness(t)
	h.expectConfirmed(t, "faucetAddr")
	h.balances.EXPECT().RefreshBalance(h.account).Times(1)

	args := h.args()
	args.UseFaucet = true
	outcome, err := h.submitter.Submit(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, "faucetAddr", outcome.Source)
	state := h.submitter.State().Snapshot()
	assert.Equal(t, PhaseConfirmed, state.Phase)
	assert.Nil(t, state.Events)
	assert.Len(t, h.submitter.History().List(), 1)
	assert.True(t, h.journal.begun[0].Faucet)
}

func TestSubmitShieldedType(t *testing.T) {
	h := newHarness(t)
	h.expectConfirmed(t, "addrA")
	h.balances.EXPECT().RefreshBalance(gomock.Any())

	args := h.args()
	args.Shielded = true
	outcome, err := h.submitter.Submit(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, TransferTypeShielded, outcome.Type)
}

func TestSubmitTimeout(t *testing.T) {
	h := newHarness(t)
	h.epochs.EXPECT().QueryEpoch(gomock.Any()).Return(uint64(42), nil)
	h.builder.EXPECT().MakeTransfer(gomock.Any(), gomock.Any()).Return(testTx, nil)
	h.broadcaster.EXPECT().BroadcastTx(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []byte) error {
		h.timer.expire()
		return nil
	})

	_, err := h.submitter.Submit(context.Background(), h.args())
	require.Error(t, err)
	assert.True(t, ledgererrors.IsTimeout(err))

	state := h.submitter.State().Snapshot()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.Contains(t, state.Error, "10 seconds")
	assert.Nil(t, state.Events)
	assert.Len(t, h.submitter.History().List(), 0)

	opened, closed := h.subscriber.counts()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)

	res := h.journal.finished["sub-1"]
	assert.Equal(t, store.StatusFailed, res.Status)
	assert.Equal(t, testHash, res.TxHash)
	assert.Equal(t, 1.0, h.submissions(t, "timeout"))
}

func TestSubmitFailsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(h *harness)
		args   func(h *harness) SubmitArgs
		check  func(t *testing.T, err error)
		metric string
	}{
		{
			name: "builder failure never broadcasts",
			setup: func(h *harness) {
				h.epochs.EXPECT().QueryEpoch(gomock.Any()).Return(uint64(42), nil)
				h.builder.EXPECT().MakeTransfer(gomock.Any(), gomock.Any()).
					Return(SignedTransaction{}, ledgererrors.NewBuilderError("invalid target address", nil))
			},
			args:   func(h *harness) SubmitArgs { return h.args() },
			check:  func(t *testing.T, err error) { assert.True(t, ledgererrors.IsBuilder(err)) },
			metric: "builder",
		},
		{
			name: "epoch failure never builds",
			setup: func(h *harness) {
				h.epochs.EXPECT().QueryEpoch(gomock.Any()).Return(uint64(0), errors.New("connection refused"))
			},
			args:   func(h *harness) SubmitArgs { return h.args() },
			check:  func(t *testing.T, err error) { assert.True(t, ledgererrors.IsTransport(err)) },
			metric: "transport",
		},
		{
			name:  "unknown token",
			setup: func(h *harness) {},
			args: func(h *harness) SubmitArgs {
				a := h.args()
				a.Account.TokenType = "BTC"
				return a
			},
			check: func(t *testing.T, err error) {
				assert.True(t, ledgererrors.IsBuilder(err))
				assert.Contains(t, err.Error(), "unknown token BTC")
			},
			metric: "builder",
		},
		{
			name:  "shielded IBC rejected",
			setup: func(h *harness) {},
			args: func(h *harness) SubmitArgs {
				a := h.args()
				a.Shielded = true
				a.Channel = "channel-0"
				return a
			},
			check:  func(t *testing.T, err error) { assert.True(t, ledgererrors.IsValidation(err)) },
			metric: "validation",
		},
		{
			name:  "account without address",
			setup: func(h *harness) {},
			args: func(h *harness) SubmitArgs {
				a := h.args()
				a.Account.EstablishedAddress = ""
				return a
			},
			check:  func(t *testing.T, err error) { assert.True(t, ledgererrors.IsValidation(err)) },
			metric: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			_, err := h.submitter.Submit(context.Background(), tt.args(h))
			require.Error(t, err)
			tt.check(t, err)

			state := h.submitter.State().Snapshot()
			assert.Equal(t, PhaseFailed, state.Phase)
			assert.Equal(t, err.Error(), state.Error)
			assert.Len(t, h.submitter.History().List(), 0)

			opened, _ := h.subscriber.counts()
			assert.Equal(t, 0, opened)
			assert.Equal(t, store.StatusFailed, h.journal.finished["sub-1"].Status)
			assert.Equal(t, 1.0, h.submissions(t, tt.metric))
		})
	}
}

func TestSubmitSupersededConfirmation(t *testing.T) {
	h := newHarness(t)
	h.epochs.EXPECT().QueryEpoch(gomock.Any()).Return(uint64(42), nil)
	h.builder.EXPECT().MakeTransfer(gomock.Any(), gomock.Any()).Return(testTx, nil)
	h.broadcaster.EXPECT().BroadcastTx(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []byte) error {
		// a newer submission starts while this one is in flight
		h.submitter.State().begin("sub-2")
		h.subscriber.current().emit(appliedEvent(testHash, "1000000", "9"))
		return nil
	})
	h.balances.EXPECT().RefreshBalance(h.account).Times(1)

	_, err := h.submitter.Submit(context.Background(), h.args())
	require.NoError(t, err)

	assert.Len(t, h.submitter.History().List(), 1)
	assert.Equal(t, SubmissionState{Phase: PhasePending, SubmissionID: "sub-2"}, h.submitter.State().Snapshot())
}

func TestClearKeepsHistory(t *testing.T) {
	h := newHarness(t)
	h.expectConfirmed(t, "addrA")
	h.balances.EXPECT().RefreshBalance(gomock.Any())

	_, err := h.submitter.Submit(context.Background(), h.args())
	require.NoError(t, err)

	h.submitter.State().Clear()
	assert.Equal(t, SubmissionState{Phase: PhaseIdle}, h.submitter.State().Snapshot())
	assert.Len(t, h.submitter.History().List(), 1)
}

func TestJournalFailureDoesNotChangeOutcome(t *testing.T) {
	h := newHarness(t)
	h.journal.err = errors.New("disk full")
	h.expectConfirmed(t, "addrA")
	h.balances.EXPECT().RefreshBalance(gomock.Any())

	_, err := h.submitter.Submit(context.Background(), h.args())
	require.NoError(t, err)
	assert.Equal(t, PhaseConfirmed, h.submitter.State().Snapshot().Phase)
}
