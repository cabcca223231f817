package transfer

import (
	"context"
	"sync"
	"time"

	coretypes "github.com/cometbft/cometbft/rpc/core/types"

	"github.com/anoma/transferd/walletClient/ledger"
	"github.com/anoma/transferd/walletClient/store"
)

// countingSubscriber hands out in-memory subscriptions and counts every
// Subscribe and Close call.
type countingSubscriber struct {
	mu     sync.Mutex
	opened int
	closed int
	hashes []string
	err    error
	last   *fakeSubscription

	// onSubscribe runs before Subscribe returns
	onSubscribe func(sub *fakeSubscription)
}

func (c *countingSubscriber) Subscribe(_ context.Context, hash string) (ledger.Subscription, error) {
	c.mu.Lock()
	c.hashes = append(c.hashes, hash)
	if c.err != nil {
		c.mu.Unlock()
		return nil, c.err
	}
	c.opened++
	sub := &fakeSubscription{parent: c, events: make(chan coretypes.ResultEvent, 1)}
	c.last = sub
	c.mu.Unlock()

	if c.onSubscribe != nil {
		c.onSubscribe(sub)
	}
	return sub, nil
}

func (c *countingSubscriber) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened, c.closed
}

func (c *countingSubscriber) current() *fakeSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

type fakeSubscription struct {
	parent *countingSubscriber
	events chan coretypes.ResultEvent
}

func (f *fakeSubscription) Events() <-chan coretypes.ResultEvent { return f.events }

func (f *fakeSubscription) Close() error {
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()
	f.parent.closed++
	return nil
}

func (f *fakeSubscription) emit(ev coretypes.ResultEvent) {
	f.events <- ev
}

func appliedEvent(hash, gasMicro, height string) coretypes.ResultEvent {
	return coretypes.ResultEvent{
		Query: ledger.AppliedTxQuery(hash),
		Events: map[string][]string{
			"tm.event":         {"NewBlock"},
			ledger.AttrHash:    {hash},
			ledger.AttrGasUsed: {gasMicro},
			ledger.AttrHeight:  {height},
		},
	}
}

// manualTimer is a timerFunc whose deadline fires only when told to.
type manualTimer struct {
	mu       sync.Mutex
	fire     chan time.Time
	duration time.Duration
	stopped  int
}

func newManualTimer() *manualTimer {
	return &manualTimer{fire: make(chan time.Time, 1)}
}

func (m *manualTimer) start(d time.Duration) (<-chan time.Time, func() bool) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
	return m.fire, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stopped++
		return true
	}
}

func (m *manualTimer) expire() {
	m.fire <- time.Now()
}

type memoryJournal struct {
	mu       sync.Mutex
	begun    []store.SubmissionRecord
	finished map[string]store.SubmissionResult
	err      error
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{finished: make(map[string]store.SubmissionResult)}
}

func (m *memoryJournal) Begin(_ context.Context, rec store.SubmissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begun = append(m.begun, rec)
	return m.err
}

func (m *memoryJournal) Finish(_ context.Context, id string, res store.SubmissionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished[id] = res
	return m.err
}
