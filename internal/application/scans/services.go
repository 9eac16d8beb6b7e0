package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safelink/internal/application"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/domain/verdict"
)

// Service is the dispatcher: one request to the analysis service per Scan,
// one write to the slot, then it opens the view on success.
// Service is safe for concurrent use.
type Service struct {
	Analyzer   domain.Analyzer
	Slot       domain.Slot
	Opener     domain.Opener  // optional
	Archive    domain.Archive // optional
	Feed       *Feed          // optional
	Classifier *verdict.Classifier
	Clock      application.Clock

	Window domain.Window
	// OpenOnFailure also opens the view when the scan failed. Off by default:
	// a failed scan only updates the slot.
	OpenOnFailure bool
	// DiscardStale keeps a newer result in the slot when an older scan finishes late.
	// Off by default, which means last write wins.
	DiscardStale bool

	seq     atomic.Uint64
	writeMu sync.Mutex
	written uint64
}

// Outcome is the result of one scan: either a result from the service or the
// fallback built for a failure, plus the failure itself.
type Outcome struct {
	ScanID      domain.ScanID          `json:"scan_id"`
	Seq         uint64                 `json:"seq"`
	URL         string                 `json:"url"`
	Result      *domain.AnalysisResult `json:"result"`
	Verdict     verdict.Verdict        `json:"verdict"`
	Err         *domain.ScanError      `json:"-"`
	ErrorKind   domain.ErrorKind       `json:"error_kind,omitempty"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt time.Time              `json:"completed_at"`
	Opened      bool                   `json:"opened"`
	Stale       bool                   `json:"stale,omitempty"`
	ArchiveURL  string                 `json:"archive_url,omitempty"`
}

// Failed reports whether the service could not produce a usable answer.
// An upstream "error" status still counts as delivered.
func (o Outcome) Failed() bool {
	return o.Err != nil && o.Err.Kind != domain.KindUpstream
}

// Scan jalankan satu scan sampai selesai, tanpa retry dan tanpa cancel dari user.
// The returned error is only set when the slot could not be written; scan
// failures are reported through Outcome.Err and the fallback result.
func (s *Service) Scan(ctx context.Context, url string) (Outcome, error) {
	out := Outcome{
		ScanID:    domain.ScanID(uuid.New().String()),
		Seq:       s.seq.Add(1),
		URL:       url,
		StartedAt: s.now(),
	}
	log.Printf("scan dispatched: id=%s seq=%d url=%s", out.ScanID, out.Seq, url)

	res, err := s.Analyzer.Analyze(ctx, domain.ScanRequest{URL: url})
	switch {
	case err != nil:
		var se *domain.ScanError
		if !errors.As(err, &se) {
			se = domain.TransportError(err)
		}
		out.Err = se
		out.Result = domain.Fallback(se)
		log.Printf("scan failed: id=%s kind=%s err=%v", out.ScanID, se.Kind, se)
	case res == nil:
		out.Err = domain.DecodeError(errors.New("empty analysis response"))
		out.Result = domain.Fallback(out.Err)
	default:
		out.Result = res
		if res.Status == domain.StatusError {
			out.Err = domain.UpstreamError(errors.New(res.Error))
			log.Printf("scan reported error upstream: id=%s err=%s", out.ScanID, res.Error)
		}
	}
	if out.Err != nil {
		out.ErrorKind = out.Err.Kind
	}
	out.Verdict = s.classifier().Classify(out.Result)
	out.CompletedAt = s.now()

	written, werr := s.write(ctx, out)
	if werr != nil {
		log.Printf("slot write failed: id=%s err=%v", out.ScanID, werr)
		s.publish(out)
		return out, fmt.Errorf("write slot: %w", werr)
	}
	out.Stale = !written

	if written {
		out.ArchiveURL = s.archive(ctx, out)
		if s.shouldOpen(out) {
			if err := s.Opener.Open(ctx, s.windowFor(out.ScanID)); err != nil {
				log.Printf("open view failed: id=%s err=%v", out.ScanID, err)
			} else {
				out.Opened = true
			}
		}
	}

	s.publish(out)
	log.Printf("scan finished: id=%s verdict=%s stale=%t opened=%t", out.ScanID, out.Verdict.Label, out.Stale, out.Opened)
	return out, nil
}

// Latest returns the record currently in the slot
func (s *Service) Latest(ctx context.Context) (*domain.Record, error) {
	return s.Slot.Get(ctx)
}

func (s *Service) write(ctx context.Context, out Outcome) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.DiscardStale && out.Seq < s.written {
		log.Printf("stale result discarded: id=%s seq=%d newest=%d", out.ScanID, out.Seq, s.written)
		return false, nil
	}
	rec := &domain.Record{
		ScanID:   out.ScanID,
		Seq:      out.Seq,
		URL:      out.URL,
		StoredAt: out.CompletedAt,
		Result:   out.Result,
	}
	if err := s.Slot.Put(ctx, rec); err != nil {
		return false, err
	}
	if out.Seq > s.written {
		s.written = out.Seq
	}
	return true, nil
}

func (s *Service) archive(ctx context.Context, out Outcome) string {
	if s.Archive == nil {
		return ""
	}
	payload, err := json.Marshal(out.Result)
	if err != nil {
		log.Printf("archive marshal failed: id=%s err=%v", out.ScanID, err)
		return ""
	}
	key := fmt.Sprintf("results/%s/%s.json", out.CompletedAt.Format("2006/01/02"), out.ScanID)
	url, err := s.Archive.Store(ctx, key, payload)
	if err != nil {
		// archive is best effort, the slot already has the result
		log.Printf("archive failed: id=%s key=%s err=%v", out.ScanID, key, err)
		return ""
	}
	return url
}

func (s *Service) shouldOpen(out Outcome) bool {
	if s.Opener == nil {
		return false
	}
	return !out.Failed() || s.OpenOnFailure
}

func (s *Service) windowFor(id domain.ScanID) domain.Window {
	w := s.Window
	w.ScanID = id
	if w.Width <= 0 {
		w.Width = 400
	}
	if w.Height <= 0 {
		w.Height = 250
	}
	return w
}

func (s *Service) publish(out Outcome) {
	if s.Feed != nil {
		s.Feed.Publish(out)
	}
}

func (s *Service) classifier() *verdict.Classifier {
	if s.Classifier == nil {
		return verdict.NewClassifier(nil)
	}
	return s.Classifier
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}
