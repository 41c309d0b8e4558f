package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(t *testing.T, s *Store) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        idx.New().String() + "@example.com",
		Username:     "alice",
		PasswordHash: "hash",
		Roles:        []string{domain.RoleUser},
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hash",
		Roles:        []string{domain.RoleUser, domain.RoleAdmin},
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, []string{domain.RoleUser, domain.RoleAdmin}, got.Roles)

	byEmail, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestUsersDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser(t, s)

	dup := domain.User{
		ID:           idx.New().String(),
		Email:        u.Email,
		Username:     "bob",
		PasswordHash: "hash2",
		Roles:        []string{domain.RoleUser},
		CreatedAt:    time.Now().UTC(),
	}
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersUpdateRoles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	require.NoError(t, s.Users().UpdateUserRoles(ctx, u.ID, []string{domain.RoleUser, domain.RoleAdmin}))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{domain.RoleUser, domain.RoleAdmin}, got.Roles)

	err = s.Users().UpdateUserRoles(ctx, idx.New().String(), []string{domain.RoleUser})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefreshTokensLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	rec := domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      u.ID,
		Fingerprint: "fp-1",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))

	got, err := s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	// First delete consumes, second reports not found.
	require.NoError(t, s.RefreshTokens().DeleteRefreshToken(ctx, "fp-1"))
	err = s.RefreshTokens().DeleteRefreshToken(ctx, "fp-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefreshTokensDuplicateFingerprint(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	rec := domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      u.ID,
		Fingerprint: "fp-dup",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))

	rec.ID = idx.New().String()
	err := s.RefreshTokens().CreateRefreshToken(ctx, rec)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestRefreshTokensDeleteAllForUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newTestUser(t, s)
	bob := newTestUser(t, s)

	for i, uid := range []string{alice.ID, alice.ID, bob.ID} {
		rec := domain.RefreshTokenRecord{
			ID:          idx.New().String(),
			UserID:      uid,
			Fingerprint: "fp-" + string(rune('a'+i)),
			CreatedAt:   time.Now().UTC(),
		}
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))
	}

	require.NoError(t, s.RefreshTokens().DeleteAllUserRefreshTokens(ctx, alice.ID))

	_, err := s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-a")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-b")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Bob's session survives.
	_, err = s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-c")
	require.NoError(t, err)
}

func TestRefreshTokensDeleteCreatedBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	now := time.Now().UTC()
	old := domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      u.ID,
		Fingerprint: "fp-old",
		CreatedAt:   now.Add(-48 * time.Hour),
	}
	fresh := domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      u.ID,
		Fingerprint: "fp-fresh",
		CreatedAt:   now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, old))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, fresh))

	require.NoError(t, s.RefreshTokens().DeleteRefreshTokensCreatedBefore(ctx, now.Add(-24*time.Hour)))

	_, err := s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-old")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-fresh")
	require.NoError(t, err)
}

func TestCarsCRUDScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newTestUser(t, s)
	bob := newTestUser(t, s)

	car := domain.Car{
		ID:        idx.New().String(),
		UserID:    alice.ID,
		Brand:     "Toyota",
		Model:     "Corolla",
		Fuel:      "petrol",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Cars().CreateCar(ctx, car))

	got, err := s.Cars().GetCar(ctx, alice.ID, car.ID)
	require.NoError(t, err)
	require.Equal(t, "Toyota", got.Brand)

	// Another user cannot see it.
	_, err = s.Cars().GetCar(ctx, bob.ID, car.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	car.Model = "Camry"
	car.Fuel = "hybrid"
	require.NoError(t, s.Cars().UpdateCar(ctx, car))

	got, err = s.Cars().GetCar(ctx, alice.ID, car.ID)
	require.NoError(t, err)
	require.Equal(t, "Camry", got.Model)
	require.Equal(t, "hybrid", got.Fuel)

	// Update against the wrong owner touches nothing.
	wrongOwner := car
	wrongOwner.UserID = bob.ID
	wrongOwner.Model = "Prius"
	require.ErrorIs(t, s.Cars().UpdateCar(ctx, wrongOwner), store.ErrNotFound)

	require.NoError(t, s.Cars().DeleteCar(ctx, alice.ID, car.ID))
	_, err = s.Cars().GetCar(ctx, alice.ID, car.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCarsListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newTestUser(t, s)
	bob := newTestUser(t, s)

	base := time.Now().UTC().Add(-time.Hour)
	for i, spec := range []struct {
		uid   string
		brand string
	}{
		{alice.ID, "Toyota"},
		{alice.ID, "Mazda"},
		{bob.ID, "Ford"},
	} {
		c := domain.Car{
			ID:        idx.New().String(),
			UserID:    spec.uid,
			Brand:     spec.brand,
			Model:     "m",
			Fuel:      "petrol",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Cars().CreateCar(ctx, c))
	}

	mine, err := s.Cars().ListCarsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "Mazda", mine[0].Brand)
	require.Equal(t, "Toyota", mine[1].Brand)

	all, err := s.Cars().ListAllCars(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Ford", all[0].Brand)
}

func TestCarsDeleteAnyOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newTestUser(t, s)

	car := domain.Car{
		ID:        idx.New().String(),
		UserID:    alice.ID,
		Brand:     "Toyota",
		Model:     "Corolla",
		Fuel:      "petrol",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Cars().CreateCar(ctx, car))

	require.NoError(t, s.Cars().DeleteCarAnyOwner(ctx, car.ID))
	_, err := s.Cars().GetCar(ctx, alice.ID, car.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	boom := store.ErrNotFound
	err := s.WithTx(ctx, func(tx store.Tx) error {
		rec := domain.RefreshTokenRecord{
			ID:          idx.New().String(),
			UserID:      u.ID,
			Fingerprint: "fp-tx",
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, rec); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-tx")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		rec := domain.RefreshTokenRecord{
			ID:          idx.New().String(),
			UserID:      u.ID,
			Fingerprint: "fp-commit",
			CreatedAt:   time.Now().UTC(),
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, rec)
	})
	require.NoError(t, err)

	got, err := s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-commit")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newTestUser(t, s)

	rec := domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      u.ID,
		Fingerprint: "fp-cascade",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))

	car := domain.Car{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Brand:     "Toyota",
		Model:     "Corolla",
		Fuel:      "petrol",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Cars().CreateCar(ctx, car))

	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, u.ID)
	require.NoError(t, err)

	_, err = s.RefreshTokens().GetRefreshTokenByFingerprint(ctx, "fp-cascade")
	require.ErrorIs(t, err, store.ErrNotFound)
	cars, err := s.Cars().ListAllCars(ctx)
	require.NoError(t, err)
	require.Empty(t, cars)
}
