package agent

import "sync/atomic"

// Slot holds the latest move published by a player. One goroutine publishes
// while another reads; neither ever blocks. A Slot must not be copied.
type Slot[M comparable] struct {
	latest atomic.Pointer[M]
}

// Publish replaces the latest move.
func (s *Slot[M]) Publish(move M) {
	s.latest.Store(&move)
}

// Latest returns the most recently published move without consuming it.
func (s *Slot[M]) Latest() (M, bool) {
	p := s.latest.Load()
	if p == nil {
		var none M
		return none, false
	}
	return *p, true
}

func (s *Slot[M]) Published() bool {
	return s.latest.Load() != nil
}

// Reset forgets the latest move so a new decision starts empty.
func (s *Slot[M]) Reset() {
	s.latest.Store(nil)
}
