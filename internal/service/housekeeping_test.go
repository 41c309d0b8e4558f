package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHousekeepingPurgesStaleRecords(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	codec := newTestCodec()
	u := createUser(t, st, "alice@example.com", "Sup3r-secret-pass!")

	old := refreshRecordFor(t, codec, u.ID, "stale-token")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, old))

	fresh := refreshRecordFor(t, codec, u.ID, "fresh-token")
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, fresh))

	hk := NewHousekeepingService(st, slog.Default(), time.Hour, 24*time.Hour)
	hk.Start()
	hk.Stop()

	require.False(t, recordExists(t, st, codec, "stale-token"))
	require.True(t, recordExists(t, st, codec, "fresh-token"))
}
