package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/pkg/cryptox"
	"github.com/carnotes-app/carnotes/pkg/idx"
	"github.com/carnotes-app/carnotes/pkg/jwtx"
	"github.com/carnotes-app/carnotes/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// SessionService owns login, refresh rotation and logout. Refresh tokens are
// single-use: every successful refresh consumes the presented record and
// stores exactly one replacement. A presented token with no matching record
// is treated as reuse and revokes every session of the claimed subject.
type SessionService struct {
	Store store.Store
	Codec *jwtx.Codec
}

// Login verifies credentials and opens a new session. priorRefresh is the
// refresh token that rode along on the login request, if any: a recorded one
// is logged out normally, an unrecorded one is treated as reuse before the
// new session is created.
func (s *SessionService) Login(
	ctx context.Context,
	email, password, priorRefresh string,
) (domain.SessionData, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SessionData{}, ErrInvalidCredentials
		}
		return domain.SessionData{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("user_id", u.ID))
		return domain.SessionData{}, ErrInvalidCredentials
	}

	if priorRefresh != "" {
		if err := s.closePriorSession(ctx, priorRefresh); err != nil {
			return domain.SessionData{}, err
		}
	}

	return s.openSession(ctx, u)
}

// Refresh consumes the presented refresh token and, when it validates, hands
// back a fresh pair. The record is deleted before the token is validated:
// whatever happens next, that token is spent.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.SessionData, error) {
	l := slogx.FromContext(ctx)

	fp := s.Codec.Fingerprint(refreshToken)

	var rec domain.RefreshTokenRecord
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		rec, err = tx.RefreshTokens().GetRefreshTokenByFingerprint(ctx, fp)
		if err != nil {
			return err
		}
		return tx.RefreshTokens().DeleteRefreshToken(ctx, fp)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Well-formed-looking token without a record: either it was
			// already rotated away or it never existed. Treat as reuse.
			s.revokeSuspectSessions(ctx, refreshToken)
			return domain.SessionData{}, ErrInvalidRefresh
		}
		return domain.SessionData{}, err
	}

	// Reload the user so role changes since issuance take effect on the new
	// access token.
	u, err := s.Store.Users().GetUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SessionData{}, ErrInvalidRefresh
		}
		return domain.SessionData{}, err
	}

	claims, err := s.Codec.Verify(refreshToken, jwtx.KindRefresh)
	if err != nil {
		l.Info("consumed refresh token failed verification",
			slog.String("user_id", rec.UserID),
			slog.Any("error", err),
		)
		return domain.SessionData{}, ErrInvalidRefresh
	}
	if claims.Subject != u.ID {
		l.Warn("refresh token subject does not match its record",
			slog.String("user_id", rec.UserID),
			slog.String("subject", claims.Subject),
		)
		return domain.SessionData{}, ErrInvalidRefresh
	}

	return s.openSession(ctx, u)
}

// Logout closes the session the presented refresh token belongs to. It never
// fails the caller over token state: an unknown token triggers the same
// defensive revocation as Refresh, and an empty one is a no-op.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.closePriorSession(ctx, refreshToken)
}

// closePriorSession deletes the record for the given token, falling back to
// the reuse path when no record matches.
func (s *SessionService) closePriorSession(ctx context.Context, refreshToken string) error {
	fp := s.Codec.Fingerprint(refreshToken)

	err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		s.revokeSuspectSessions(ctx, refreshToken)
		return nil
	}
	return err
}

// revokeSuspectSessions handles a presented-but-unrecorded refresh token.
// The subject is taken from a verified decode when possible, and from an
// unverified decode otherwise; an unverifiable token still names the account
// under replay. Only a well-formed ULID subject is acted on.
func (s *SessionService) revokeSuspectSessions(ctx context.Context, refreshToken string) {
	l := slogx.FromContext(ctx)

	var subject string
	if claims, err := s.Codec.Verify(refreshToken, jwtx.KindRefresh); err == nil {
		subject = claims.Subject
	} else if claims := s.Codec.DecodeUnsafe(refreshToken); claims != nil {
		subject = claims.Subject
	}

	if _, err := idx.Parse(subject); err != nil {
		return
	}

	l.Warn("refresh token reuse detected, revoking all sessions",
		slog.String("user_id", subject),
	)
	if err := s.Store.RefreshTokens().DeleteAllUserRefreshTokens(ctx, subject); err != nil {
		l.Error("failed to revoke sessions after reuse",
			slog.Any("error", err),
			slog.String("user_id", subject),
		)
	}
}

// openSession issues a fresh token pair for u and records the refresh
// fingerprint.
func (s *SessionService) openSession(ctx context.Context, u domain.User) (domain.SessionData, error) {
	accessToken, accessExp, err := s.Codec.IssueAccess(u.ID, u.Roles)
	if err != nil {
		return domain.SessionData{}, err
	}

	refreshToken, refreshExp, err := s.Codec.IssueRefresh(u.ID)
	if err != nil {
		return domain.SessionData{}, err
	}

	rec := domain.RefreshTokenRecord{
		ID:          idx.New().String(),
		UserID:      u.ID,
		Fingerprint: s.Codec.Fingerprint(refreshToken),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rec); err != nil {
		return domain.SessionData{}, err
	}

	return domain.SessionData{
		User:             u,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}
