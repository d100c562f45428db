package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingDeletesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	expired := domain.Session{
		ID:        idx.New().String(),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	live := domain.Session{
		ID:        idx.New().String(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, st.Sessions().CreateSession(ctx, expired))
	require.NoError(t, st.Sessions().CreateSession(ctx, live))

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)

	// The worker sweeps once on startup; Stop waits for that pass.
	svc.Start()
	svc.Stop()

	// The expired row is gone: its id can be reinserted without conflict.
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID:        expired.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	got, err := st.Sessions().GetSession(ctx, live.ID)
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)
}
