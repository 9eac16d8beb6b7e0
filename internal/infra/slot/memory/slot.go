package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

// Slot is a process-local shared slot. Each Put replaces the previous record.
type Slot struct {
	mu  sync.RWMutex
	rec *domain.Record
}

func New() *Slot { return &Slot{} }

func (s *Slot) Put(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	return nil
}

func (s *Slot) Get(_ context.Context) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return nil, domain.ErrSlotEmpty
	}
	cp := *s.rec
	return &cp, nil
}

func (s *Slot) Ping(context.Context) error { return nil }
