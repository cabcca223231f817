package transfer

import (
	"sync"
)

// State is the process-wide submission state. Readers use Snapshot or
// Subscribe; only the Submitter transitions it.
type State struct {
	mu        sync.RWMutex
	current   SubmissionState
	observers map[int]chan SubmissionState
	nextObs   int
}

// NewState returns a State in the Idle phase.
func NewState() *State {
	return &State{
		current:   SubmissionState{Phase: PhaseIdle},
		observers: make(map[int]chan SubmissionState),
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() SubmissionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Subscribe returns a channel receiving every subsequent state. A slow reader
// only misses intermediate states; the newest one is always delivered.
// The returned cancel func closes the channel.
func (s *State) Subscribe() (<-chan SubmissionState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	ch := make(chan SubmissionState, 1)
	s.observers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
			close(ch)
		})
	}
}

// Clear drops the outcome of a resolved submission and returns to Idle.
// History is untouched. It does nothing while Idle or Pending.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.current.Phase {
	case PhaseConfirmed, PhaseFailed:
		s.setLocked(SubmissionState{Phase: PhaseIdle})
	}
}

func (s *State) begin(submissionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(SubmissionState{Phase: PhasePending, SubmissionID: submissionID})
}

// confirm resolves submissionID as Confirmed. It reports false, changing
// nothing, when a newer submission has superseded it.
func (s *State) confirm(submissionID string, events *TransferEvents) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.SubmissionID != submissionID || s.current.Phase != PhasePending {
		return false
	}
	s.setLocked(SubmissionState{Phase: PhaseConfirmed, SubmissionID: submissionID, Events: events})
	return true
}

// fail resolves submissionID as Failed with msg, unless superseded.
func (s *State) fail(submissionID, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.SubmissionID != submissionID || s.current.Phase != PhasePending {
		return false
	}
	s.setLocked(SubmissionState{Phase: PhaseFailed, SubmissionID: submissionID, Error: msg})
	return true
}

func (s *State) setLocked(next SubmissionState) {
	s.current = next
	for _, ch := range s.observers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next.clone():
		default:
		}
	}
}

func (st SubmissionState) clone() SubmissionState {
	if st.Events != nil {
		ev := *st.Events
		st.Events = &ev
	}
	return st
}
