package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

const DefaultEndpoint = "http://localhost:8000/analyze_link"

// maxBody caps how much of a response is read
const maxBody = 4 << 20

// Client talks to the link analysis service
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a client. A zero timeout means the request waits for the
// service as long as the context allows.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Analyze POSTs {"url": ...} and decodes the answer verbatim.
// Failures come back as *domain.ScanError of kind transport or decode.
func (c *Client) Analyze(ctx context.Context, req domain.ScanRequest) (*domain.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.TransportError(fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.TransportError(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, domain.TransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, domain.TransportError(fmt.Errorf("HTTP error! status: %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, domain.TransportError(fmt.Errorf("read response: %w", err))
	}
	return decode(raw)
}

func decode(raw []byte) (*domain.AnalysisResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, domain.DecodeError(errors.New("response is not a JSON object"))
	}
	var res domain.AnalysisResult
	if err := json.Unmarshal(trimmed, &res); err != nil {
		return nil, domain.DecodeError(fmt.Errorf("decode response: %w", err))
	}
	return &res, nil
}
