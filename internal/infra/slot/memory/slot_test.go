package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
)

func TestSlotStartsEmpty(t *testing.T) {
	_, err := New().Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrSlotEmpty)
}

func TestSlotOverwrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Put(ctx, &domain.Record{ScanID: "a"}))
	require.NoError(t, s.Put(ctx, &domain.Record{ScanID: "b"}))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ScanID("b"), got.ScanID)

	// reads are non-destructive
	again, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
