package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_slots (
  slot_key      VARCHAR(64)  NOT NULL PRIMARY KEY,
  scan_id       VARCHAR(64)  NOT NULL,
  seq           BIGINT UNSIGNED NOT NULL,
  requested_url TEXT         NOT NULL,
  result_json   JSON         NOT NULL,
  stored_at     DATETIME(6)  NOT NULL
);`

// SlotRepository keeps the shared slot as one row of scan_slots
type SlotRepository struct {
	db  *sql.DB
	key string
}

func NewSlotRepository(db *sql.DB, key string) *SlotRepository {
	return &SlotRepository{db: db, key: keyOrDefault(key)}
}

// EnsureSchema creates scan_slots when missing
func (r *SlotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Put overwrites the slot row (upsert)
func (r *SlotRepository) Put(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO scan_slots (slot_key, scan_id, seq, requested_url, result_json, stored_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 scan_id=VALUES(scan_id), seq=VALUES(seq), requested_url=VALUES(requested_url),
 result_json=VALUES(result_json), stored_at=VALUES(stored_at);
`
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	stored := rec.StoredAt
	if stored.IsZero() {
		stored = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q, r.key, string(rec.ScanID), rec.Seq, rec.URL, string(result), stored)
	return err
}

// Get reads the slot without clearing it
func (r *SlotRepository) Get(ctx context.Context) (*domain.Record, error) {
	const q = `
SELECT scan_id, seq, requested_url, result_json, stored_at
FROM scan_slots WHERE slot_key=? LIMIT 1;
`
	var rec domain.Record
	var scanID string
	var result []byte
	err := r.db.QueryRowContext(ctx, q, r.key).Scan(&scanID, &rec.Seq, &rec.URL, &result, &rec.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("querying slot: %w", err)
	}
	rec.ScanID = domain.ScanID(scanID)
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("decoding slot result: %w", err)
	}
	return &rec, nil
}

func (r *SlotRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
