package linkscan

import "context"

// Analyzer port (client for the remote analysis service).
// Implementations return *ScanError for transport and decode failures.
type Analyzer interface {
	Analyze(ctx context.Context, req ScanRequest) (*AnalysisResult, error)
}

// Slot port, the single named location bridging the dispatcher and the presenter.
// Get returns ErrSlotEmpty until the first Put.
type Slot interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context) (*Record, error)
	Ping(ctx context.Context) error
}

// Archive port (optional object storage for raw results)
type Archive interface {
	Store(ctx context.Context, key string, payload []byte) (string, error)
}

// Window describes the popup that shows a result
type Window struct {
	ScanID ScanID
	Width  int
	Height int
}

// Opener port, the view surface
type Opener interface {
	Open(ctx context.Context, w Window) error
}
