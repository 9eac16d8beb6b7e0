package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bryanwahyu/safelink/internal/application/scans"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/domain/verdict"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

const (
	TypeSnapshot = "snapshot"
	TypeScan     = "scan_result"
)

// Message is the envelope pushed to every subscriber
type Message struct {
	Type      string       `json:"type"`
	Data      *ScanSummary `json:"data"`
	Timestamp int64        `json:"timestamp"`
}

// ScanSummary is the part of an outcome a presenter needs to decide whether to refresh
type ScanSummary struct {
	ScanID    domain.ScanID    `json:"scan_id"`
	Seq       uint64           `json:"seq"`
	URL       string           `json:"url"`
	Verdict   verdict.Verdict  `json:"verdict"`
	ErrorKind domain.ErrorKind `json:"error_kind,omitempty"`
	Stale     bool             `json:"stale,omitempty"`
	Opened    bool             `json:"opened"`
}

// Hub streams scan outcomes to websocket clients. Each client gets the
// current slot as a snapshot first, then every outcome.
type Hub struct {
	Feed       *scans.Feed
	Slot       domain.Slot
	Classifier *verdict.Classifier

	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  int
}

func NewHub(feed *scans.Feed, slot domain.Slot, classifier *verdict.Classifier, checkOrigin func(*http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		Feed:       feed,
		Slot:       slot,
		Classifier: classifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Clients returns how many websocket clients are connected
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	h.track(1)
	defer h.track(-1)
	defer conn.Close()

	sub, cancel := h.Feed.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go readPump(conn, done)

	if err := h.write(conn, h.snapshot(r.Context())); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case out, ok := <-sub:
			if !ok {
				h.write(conn, nil)
				return
			}
			if err := h.write(conn, &Message{Type: TypeScan, Data: summarize(out), Timestamp: time.Now().Unix()}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) snapshot(ctx context.Context) *Message {
	msg := &Message{Type: TypeSnapshot, Timestamp: time.Now().Unix()}
	rec, err := h.Slot.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSlotEmpty) {
			log.Printf("websocket snapshot: slot read failed: %v", err)
		}
		return msg
	}
	msg.Data = &ScanSummary{
		ScanID:  rec.ScanID,
		Seq:     rec.Seq,
		URL:     rec.URL,
		Verdict: h.classify(rec.Result),
	}
	return msg
}

func (h *Hub) classify(r *domain.AnalysisResult) verdict.Verdict {
	if h.Classifier == nil {
		return verdict.Classify(r)
	}
	return h.Classifier.Classify(r)
}

// write sends msg, or a close frame when msg is nil
func (h *Hub) write(conn *websocket.Conn, msg *Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if msg == nil {
		return conn.WriteMessage(websocket.CloseMessage, []byte{})
	}
	return conn.WriteJSON(msg)
}

func (h *Hub) track(delta int) {
	h.mu.Lock()
	h.clients += delta
	h.mu.Unlock()
}

func summarize(out scans.Outcome) *ScanSummary {
	return &ScanSummary{
		ScanID:    out.ScanID,
		Seq:       out.Seq,
		URL:       out.URL,
		Verdict:   out.Verdict,
		ErrorKind: out.ErrorKind,
		Stale:     out.Stale,
		Opened:    out.Opened,
	}
}

// readPump drains client frames so pongs and close frames are processed
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
