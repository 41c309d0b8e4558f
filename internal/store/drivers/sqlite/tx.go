package sqlite

import (
	"database/sql"

	"github.com/carnotes-app/carnotes/internal/store"
)

// txStore exposes the same repos bound to a single transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.tx} }
func (t *txStore) Cars() store.Cars                   { return &carsRepo{q: t.tx} }
