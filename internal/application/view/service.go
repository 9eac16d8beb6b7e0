package view

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safelink/internal/application"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/domain/verdict"
)

const defaultMaxSessions = 32

// Session is one opened result view
type Session struct {
	ID       string        `json:"id"`
	ScanID   domain.ScanID `json:"scan_id,omitempty"`
	OpenedAt time.Time     `json:"opened_at"`
	Width    int           `json:"width,omitempty"`
	Height   int           `json:"height,omitempty"`
	State    *ViewState    `json:"state"`
}

// Service keeps the open views. Each Open reads the slot once; later scans
// do not change a view that is already open.
type Service struct {
	Slot        domain.Slot
	Classifier  *verdict.Classifier
	Clock       application.Clock
	MaxSessions int

	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
}

// Open reads the slot and renders a new session. An empty slot renders the error view.
func (s *Service) Open(ctx context.Context, w domain.Window) (Session, error) {
	rec, err := s.Slot.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrSlotEmpty) {
		return Session{}, err
	}

	var res *domain.AnalysisResult
	scanID := w.ScanID
	if rec != nil {
		// the session names the scan it renders, which may be newer than the one that asked
		if w.ScanID != "" && w.ScanID != rec.ScanID {
			log.Printf("view shows a newer scan: requested=%s rendered=%s", w.ScanID, rec.ScanID)
		}
		res = rec.Result
		scanID = rec.ScanID
	}

	sess := &Session{
		ID:       uuid.New().String(),
		ScanID:   scanID,
		OpenedAt: s.now(),
		Width:    w.Width,
		Height:   w.Height,
		State:    Render(res, s.Classifier),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]*Session)
	}
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.evictLocked()
	return sess.snapshot(), nil
}

func (s *Service) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess.snapshot(), nil
}

// Toggle flips one region of an open view
func (s *Service) Toggle(id string, region RegionName) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false, ErrNotFound
	}
	changed, err := sess.State.Toggle(region)
	if err != nil {
		return Session{}, false, err
	}
	return sess.snapshot(), changed, nil
}

func (s *Service) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of open views
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) evictLocked() {
	limit := s.MaxSessions
	if limit <= 0 {
		limit = defaultMaxSessions
	}
	for len(s.order) > limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}

// snapshot copies the session so callers never share mutable state with the registry
func (sess *Session) snapshot() Session {
	cp := *sess
	st := *sess.State
	st.Reasons.Items = make([]string, len(sess.State.Reasons.Items))
	copy(st.Reasons.Items, sess.State.Reasons.Items)
	cp.State = &st
	return cp
}
