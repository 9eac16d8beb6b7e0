package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_slots (
  slot_key      VARCHAR(64) PRIMARY KEY,
  scan_id       VARCHAR(64) NOT NULL,
  seq           BIGINT      NOT NULL,
  requested_url TEXT        NOT NULL,
  result_json   JSONB       NOT NULL,
  stored_at     TIMESTAMPTZ NOT NULL
);`

type SlotRepository struct {
	db  *sql.DB
	key string
}

func NewSlotRepository(db *sql.DB, key string) *SlotRepository {
	if strings.TrimSpace(key) == "" {
		key = "lastScanResult"
	}
	return &SlotRepository{db: db, key: key}
}

func (r *SlotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Put insert/update the slot row
func (r *SlotRepository) Put(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO scan_slots (slot_key, scan_id, seq, requested_url, result_json, stored_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (slot_key) DO UPDATE SET
 scan_id = EXCLUDED.scan_id,
 seq = EXCLUDED.seq,
 requested_url = EXCLUDED.requested_url,
 result_json = EXCLUDED.result_json,
 stored_at = EXCLUDED.stored_at;`

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	stored := rec.StoredAt
	if stored.IsZero() {
		stored = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, q, r.key, string(rec.ScanID), int64(rec.Seq), rec.URL, string(result), stored)
	return err
}

func (r *SlotRepository) Get(ctx context.Context) (*domain.Record, error) {
	const q = `
SELECT scan_id, seq, requested_url, result_json, stored_at
FROM scan_slots WHERE slot_key = $1 LIMIT 1;`

	var rec domain.Record
	var scanID string
	var seq int64
	var result []byte
	err := r.db.QueryRowContext(ctx, q, r.key).Scan(&scanID, &seq, &rec.URL, &result, &rec.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("querying slot: %w", err)
	}
	rec.ScanID = domain.ScanID(scanID)
	rec.Seq = uint64(seq)
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
