package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/errors"
	"github.com/anoma/transferd/walletClient/ledger"
	"github.com/anoma/transferd/walletClient/metrics"
)

// timerFunc starts a one-shot timer and returns its channel and stop function.
type timerFunc func(d time.Duration) (<-chan time.Time, func() bool)

func newRealTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Coordinator races block inclusion of a broadcast transaction against a deadline.
type Coordinator struct {
	logger      zerolog.Logger
	broadcaster Broadcaster
	subscriber  Subscriber
	timeout     time.Duration
	metrics     *metrics.Metrics
	newTimer    timerFunc
}

// NewCoordinator creates a Coordinator that gives up after timeout.
func NewCoordinator(broadcaster Broadcaster, subscriber Subscriber, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		logger:      logger.With().Str("component", "coordinator").Logger(),
		broadcaster: broadcaster,
		subscriber:  subscriber,
		timeout:     timeout,
		metrics:     m,
		newTimer:    newRealTimer,
	}
}

// Await registers for tx's applied event, broadcasts tx and waits for the
// first of: the confirmation, a transport fault, or the deadline.
// The subscription is released exactly once before Await returns.
func (c *Coordinator) Await(ctx context.Context, tx SignedTransaction) (ConfirmationEvent, error) {
	logger := c.logger.With().Str("tx_hash", tx.Hash).Logger()

	// registration completes before broadcast so the event cannot be missed
	sub, err := c.subscriber.Subscribe(ctx, tx.Hash)
	if err != nil {
		logger.Warn().Err(err).Msg("subscription failed")
		if errors.IsTransport(err) {
			return ConfirmationEvent{}, err
		}
		return ConfirmationEvent{}, errors.NewTransportError("failed to subscribe to applied event", err)
	}
	c.metrics.SubscriptionOpened()
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close subscription")
		}
		c.metrics.SubscriptionClosed()
	}()

	started := time.Now()
	deadline, stopTimer := c.newTimer(c.timeout)
	defer stopTimer()

	broadcastCtx, cancel := context.WithCancel(ctx)
	broadcastErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		broadcastErr <- c.broadcaster.BroadcastTx(broadcastCtx, tx.Bytes)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	events := sub.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				logger.Warn().Msg("event stream closed before confirmation")
				return ConfirmationEvent{}, errors.NewTransportError("event subscription closed before confirmation", nil)
			}
			confirmed, err := ledger.ParseAppliedEvent(ev.Events, tx.Hash)
			if err != nil {
				logger.Warn().Err(err).Msg("malformed applied event")
				return ConfirmationEvent{}, err
			}
			c.metrics.ObserveConfirmation(time.Since(started))
			logger.Info().
				Uint64("height", confirmed.Height).
				Str("gas", confirmed.Gas.String()).
				Msg("transaction confirmed")
			return confirmed, nil

		case err := <-broadcastErr:
			if err != nil {
				logger.Warn().Err(err).Msg("broadcast failed")
				if errors.IsTransport(err) {
					return ConfirmationEvent{}, err
				}
				return ConfirmationEvent{}, errors.NewTransportError("broadcast failed", err)
			}
			logger.Debug().Msg("broadcast accepted, waiting for block inclusion")
			broadcastErr = nil

		case <-deadline:
			logger.Warn().Dur("timeout", c.timeout).Msg("confirmation timed out")
			return ConfirmationEvent{}, errors.NewConfirmationTimeoutError(c.timeout)

		case <-ctx.Done():
			return ConfirmationEvent{}, errors.NewTransportError("submission cancelled", ctx.Err())
		}
	}
}
