package domain

import "time"

// RefreshTokenRecord is the server-side trace of an issued refresh token.
// Only the keyed fingerprint is persisted, never the token itself, so a
// database read alone cannot be replayed as a credential.
//
// A refresh token is valid for use only while a record with its fingerprint
// exists; rotation deletes the old record and inserts exactly one new one.
// There is no update path by design: a crash mid-rotation leaves either the
// old or the new record, never a corrupted hybrid.
type RefreshTokenRecord struct {
	ID          string
	UserID      string
	Fingerprint string
	CreatedAt   time.Time
}

// SessionData is what a successful login or refresh hands back: the caller's
// identity and a fresh token pair. The refresh token travels back to the
// client only inside an HTTP-only cookie; it never appears in a JSON body.
type SessionData struct {
	User             User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
