package jwtx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Access tokens are deliberately short-lived so
// the refresh/rotation path is exercised constantly; refresh tokens live for
// a day at most.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 5 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Kind distinguishes the two token families. Each kind is signed with its own
// secret, so an access token can never pass verification as a refresh token
// or vice versa even if the "kind" claim were forged.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrBadSignature = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrKindMismatch = errors.New("jwtx: token kind mismatch")
)

// Claims are the claims embedded in both token kinds. Roles is only populated
// on access tokens; refresh tokens carry the subject alone.
type Claims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject at issuance time, e.g. ["user","admin"].
	Roles []string `json:"roles,omitempty"`

	// Kind is "access" or "refresh".
	Kind string `json:"kind"`
}

// Codec creates and verifies the service's signed tokens. It is pure
// crypto/encoding logic with no I/O; persistence of refresh fingerprints is
// the store's job.
type Codec struct {
	Issuer string

	// AccessSecret and RefreshSecret are independent HS256 signing keys.
	AccessSecret  []byte
	RefreshSecret []byte

	// FingerprintSecret keys the HMAC used to derive storage fingerprints,
	// so a database read alone can never be replayed as a credential.
	FingerprintSecret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAccess signs a short-lived access token carrying the subject and its
// roles. The token is stateless; validity is signature plus expiry.
func (c *Codec) IssueAccess(userID string, roles []string) (string, time.Time, error) {
	return c.issue(KindAccess, userID, roles, c.AccessTTL, c.AccessSecret)
}

// IssueRefresh signs a refresh token carrying only the subject. The caller is
// expected to store its fingerprint so presentation can be checked against
// the record.
func (c *Codec) IssueRefresh(userID string) (string, time.Time, error) {
	return c.issue(KindRefresh, userID, nil, c.RefreshTTL, c.RefreshSecret)
}

func (c *Codec) issue(
	kind Kind,
	userID string,
	roles []string,
	ttl time.Duration,
	secret []byte,
) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Roles: roles,
		Kind:  string(kind),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates the signature, expiry and kind of a token and returns its
// claims. Failures are reported through the package's sentinel errors so
// callers can distinguish expiry from tampering without string matching.
func (v *Codec) Verify(token string, kind Kind) (Claims, error) {
	secret := v.AccessSecret
	if kind == KindRefresh {
		secret = v.RefreshSecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.Issuer),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrBadSignature
		default:
			return Claims{}, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrMalformed
	}
	if claims.Kind != string(kind) {
		return Claims{}, ErrKindMismatch
	}

	return *claims, nil
}

// DecodeUnsafe extracts claims WITHOUT verifying signature or expiry. It
// exists for exactly one purpose: the reuse-detection fallback, where a token
// is already known-invalid and the claimed subject is needed to revoke that
// user's sessions defensively. Never use it to authenticate anything.
func (v *Codec) DecodeUnsafe(token string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// Fingerprint returns the deterministic one-way transform of a token used as
// its storage lookup key. Keyed HMAC rather than a bare hash: an attacker
// holding the table contents cannot test candidate tokens offline without the
// fingerprint secret.
func (v *Codec) Fingerprint(token string) string {
	mac := hmac.New(sha256.New, v.FingerprintSecret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
