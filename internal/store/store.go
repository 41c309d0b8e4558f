package store

import (
	"context"
	"errors"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and let services take
// only what they need.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Cars() Cars

	ApplyMigrations() error

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. Multi-step operations that must be atomic (the refresh
	// lookup+consume in particular) go through here.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Cars() Cars
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateUserRoles replaces a user's role set. Role changes only reach
	// access tokens at the next refresh.
	UpdateUserRoles(ctx context.Context, id string, roles []string) error
}

// RefreshTokens persists refresh-token records keyed by fingerprint. There is
// deliberately no update operation: rotation is always delete + insert.
type RefreshTokens interface {
	// CreateRefreshToken stores a new record.
	CreateRefreshToken(ctx context.Context, rec domain.RefreshTokenRecord) error

	// GetRefreshTokenByFingerprint returns the record matching a presented
	// token's fingerprint, or ErrNotFound.
	GetRefreshTokenByFingerprint(ctx context.Context, fingerprint string) (domain.RefreshTokenRecord, error)

	// DeleteRefreshToken consumes a single record by fingerprint. Returns
	// ErrNotFound when no record matched, so concurrent consumers can tell
	// who won.
	DeleteRefreshToken(ctx context.Context, fingerprint string) error

	// DeleteAllUserRefreshTokens is the full fleet logout for a user.
	DeleteAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteRefreshTokensCreatedBefore is housekeeping: records older than
	// the refresh TTL can never validate again.
	DeleteRefreshTokensCreatedBefore(ctx context.Context, cutoff time.Time) error
}

type Cars interface {
	// CreateCar inserts a new car note.
	CreateCar(ctx context.Context, c domain.Car) error

	// GetCar returns a car only if it belongs to userID.
	GetCar(ctx context.Context, userID, carID string) (domain.Car, error)

	// ListCarsByUser returns a user's cars, newest first.
	ListCarsByUser(ctx context.Context, userID string) ([]domain.Car, error)

	// ListAllCars returns every car regardless of owner (admin), newest first.
	ListAllCars(ctx context.Context) ([]domain.Car, error)

	// UpdateCar rewrites brand/model/fuel of the user's car.
	UpdateCar(ctx context.Context, c domain.Car) error

	// DeleteCar removes the user's car.
	DeleteCar(ctx context.Context, userID, carID string) error

	// DeleteCarAnyOwner removes a car regardless of owner (admin).
	DeleteCarAnyOwner(ctx context.Context, carID string) error
}
