package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and single-node dev
// runs without Redis.
type MemoryStore struct {
	mu       sync.Mutex
	handoffs map[string]RegistrationHandoff
	outcomes map[string]PaymentOutcome
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		handoffs: make(map[string]RegistrationHandoff),
		outcomes: make(map[string]PaymentOutcome),
	}
}

func (s *MemoryStore) PutHandoff(_ context.Context, sid string, h *RegistrationHandoff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handoffs[sid] = *h
	return nil
}

func (s *MemoryStore) Handoff(_ context.Context, sid string) (*RegistrationHandoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handoffs[sid]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *MemoryStore) DeleteHandoff(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handoffs, sid)
	return nil
}

func (s *MemoryStore) PutOutcome(_ context.Context, sid string, o *PaymentOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[sid] = *o
	return nil
}

func (s *MemoryStore) Outcome(_ context.Context, sid string) (*PaymentOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outcomes[sid]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *MemoryStore) TakeOutcome(_ context.Context, sid string) (*PaymentOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outcomes[sid]
	if !ok {
		return nil, nil
	}
	delete(s.outcomes, sid)
	return &o, nil
}
