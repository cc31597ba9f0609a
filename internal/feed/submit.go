package feed

import "sync"

// submitState guards a blocking form submission: at most one in flight, with
// the last error held until the UI takes it.
type submitState struct {
	mu         sync.Mutex
	submitting bool
	err        string
}

// begin marks a submission as started. It returns false when one is already
// in flight.
func (s *submitState) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	s.err = ""
	return true
}

func (s *submitState) succeed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.err = ""
}

func (s *submitState) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.err = msg
}

func (s *submitState) inFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *submitState) takeError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.err
	s.err = ""
	return msg
}
