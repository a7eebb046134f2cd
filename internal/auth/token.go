package auth // package auth implements the credential and session core shared by both services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// expired, revoked, wrong token kind, malformed claims.  Collapsing the
// failure modes into one error keeps callers from leaking which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded token payload: subject (owner email), expiry and the
// user's group.
type Claims struct {
	GroupID int64 `json:"group_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed access and refresh tokens.
// The two token kinds are signed with distinct secrets so a refresh token can
// never be replayed as an access token or vice versa.  Revoked tokens are
// tracked in an in-memory RevocationList consulted on every verification.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	revoked       *RevocationList
}

// NewTokenService builds a TokenService.  It refuses to start with equal
// secrets: a shared secret would make the two token kinds interchangeable.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		revoked:       NewRevocationList(),
	}, nil
}

// IssueAccess signs a short-lived access token for the given owner identity.
func (s *TokenService) IssueAccess(sub string, groupID int64) (string, error) {
	return s.issue(sub, groupID, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a long-lived refresh token with the refresh secret.
func (s *TokenService) IssueRefresh(sub string, groupID int64) (string, error) {
	return s.issue(sub, groupID, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) issue(sub string, groupID int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		GroupID: groupID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(raw string) (*Claims, error) {
	return s.verify(raw, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (s *TokenService) VerifyRefresh(raw string) (*Claims, error) {
	return s.verify(raw, s.refreshSecret)
}

func (s *TokenService) verify(raw string, secret []byte) (*Claims, error) {
	if s.revoked.Contains(raw) {
		return nil, ErrInvalidToken
	}
	return s.decode(raw, secret)
}

// decode checks signature and expiry but not revocation.  Signature
// verification is mandatory here: there is no path that trusts claims from
// an unverified token.  A token is already invalid at exactly its exp
// timestamp (jwt/v5 requires now < exp with zero leeway).
func (s *TokenService) decode(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke adds the raw token to the revocation list.  It accepts both token
// kinds and is idempotent; revoking garbage is harmless.  The entry is kept
// until the token's own expiry so it can be pruned once verification would
// reject it on exp alone.
func (s *TokenService) Revoke(raw string) {
	exp := time.Now().UTC().Add(s.refreshTTL) // retention cap for undecodable input
	if c, err := s.decode(raw, s.accessSecret); err == nil {
		exp = c.ExpiresAt.Time
	} else if c, err := s.decode(raw, s.refreshSecret); err == nil {
		exp = c.ExpiresAt.Time
	}
	s.revoked.Add(raw, exp)
}
