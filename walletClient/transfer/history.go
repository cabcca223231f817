package transfer

import "sync"

// History is the append-only list of confirmed transfers.
type History struct {
	mu       sync.RWMutex
	outcomes []TransferOutcome
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(o TransferOutcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcomes = append(h.outcomes, o)
}

// List returns a copy of all outcomes, oldest first.
func (h *History) List() []TransferOutcome {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]TransferOutcome, len(h.outcomes))
	copy(out, h.outcomes)
	return out
}
