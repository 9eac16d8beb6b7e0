package linkscan

import "errors"

var (
	// ErrTransport covers network failures and non-2xx answers from the analysis service.
	ErrTransport = errors.New("transport error")
	// ErrDecode means the response body was not a usable JSON object.
	ErrDecode = errors.New("decode error")
	// ErrUpstream means the analysis service itself reported status "error".
	ErrUpstream = errors.New("upstream error")

	ErrSlotEmpty = errors.New("slot is empty")
)

// ErrorKind names which of the three failure families a ScanError belongs to
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindDecode    ErrorKind = "decode"
	KindUpstream  ErrorKind = "upstream"
)

// ScanError is the failure half of a scan outcome.
type ScanError struct {
	Kind ErrorKind
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err == nil {
		return string(e.Kind) + " error"
	}
	return e.Err.Error()
}

func (e *ScanError) Unwrap() error { return e.Err }

func (e *ScanError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

func TransportError(err error) *ScanError { return &ScanError{Kind: KindTransport, Err: err} }
func DecodeError(err error) *ScanError    { return &ScanError{Kind: KindDecode, Err: err} }
func UpstreamError(err error) *ScanError  { return &ScanError{Kind: KindUpstream, Err: err} }
