package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/internal/store/drivers/sqlite"
	"github.com/carnotes-app/carnotes/pkg/cryptox"
	"github.com/carnotes-app/carnotes/pkg/idx"
	"github.com/carnotes-app/carnotes/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "carnotes-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestCodec() *jwtx.Codec {
	return &jwtx.Codec{
		Issuer:            "carnotes-test",
		AccessSecret:      []byte("test-access-secret"),
		RefreshSecret:     []byte("test-refresh-secret"),
		FingerprintSecret: []byte("test-fingerprint-secret"),
		AccessTTL:         jwtx.DefaultAccessTokenTTL,
		RefreshTTL:        jwtx.DefaultRefreshTokenTTL,
	}
}

// createUser inserts a user with a real argon2id hash of password.
func createUser(t *testing.T, st store.Store, email, password string, roles ...string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     "tester",
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

// forgeRefreshToken signs a refresh token for an arbitrary subject with the
// test secrets.
func forgeRefreshToken(t *testing.T, subject string) string {
	t.Helper()

	token, _, err := newTestCodec().IssueRefresh(subject)
	require.NoError(t, err)
	return token
}

// refreshRecordFor builds the store record that would back the given token.
func refreshRecordFor(t *testing.T, codec *jwtx.Codec, userID, token string) domain.RefreshTokenRecord {
	t.Helper()

	return domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      userID,
		Fingerprint: codec.Fingerprint(token),
		CreatedAt:   time.Now().UTC(),
	}
}

// recordExists reports whether a refresh record still backs the given token.
func recordExists(t *testing.T, st store.Store, codec *jwtx.Codec, token string) bool {
	t.Helper()

	_, err := st.RefreshTokens().GetRefreshTokenByFingerprint(
		context.Background(), codec.Fingerprint(token))
	if err == nil {
		return true
	}
	require.ErrorIs(t, err, store.ErrNotFound)
	return false
}
