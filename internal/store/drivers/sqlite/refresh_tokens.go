package sqlite

import (
	"context"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
)

type refreshTokensRepo struct {
	q queryer
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, rec domain.RefreshTokenRecord) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, fingerprint, user_id, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Fingerprint, rec.UserID, rec.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByFingerprint(
	ctx context.Context,
	fingerprint string,
) (domain.RefreshTokenRecord, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, fingerprint, user_id, created_at
		FROM refresh_tokens WHERE fingerprint = ?`, fingerprint)

	var rec domain.RefreshTokenRecord
	if err := row.Scan(&rec.ID, &rec.Fingerprint, &rec.UserID, &rec.CreatedAt); err != nil {
		return domain.RefreshTokenRecord{}, mapNotFound(err)
	}
	return rec, nil
}

// DeleteRefreshToken reports ErrNotFound when nothing was deleted; under
// concurrent duplicate presentation exactly one caller deletes the row and
// the rest observe not-found.
func (r *refreshTokensRepo) DeleteRefreshToken(ctx context.Context, fingerprint string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return err
	}
	return mapNoRows(res)
}

func (r *refreshTokensRepo) DeleteAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = ?`, userID)
	return err
}

func (r *refreshTokensRepo) DeleteRefreshTokensCreatedBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE created_at < ?`, cutoff)
	return err
}
