// Package auth issues and verifies the signed session tokens carried in the
// session cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "codeflex"

var (
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("session token invalid")
)

// sessionClaims is the token payload: the user id plus registered claims.
type sessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and verifies HS256 session tokens. There is no
// server-side session state; a token is valid until it expires.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer creates an issuer. clock may be nil, in which case
// time.Now is used.
func NewSessionIssuer(secret string, ttl time.Duration, clock func() time.Time) *SessionIssuer {
	if secret == "" {
		panic("session secret cannot be empty")
	}
	if clock == nil {
		clock = time.Now
	}
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: clock}
}

// TTL returns the lifetime of issued tokens.
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID that expires ttl after issuance.
func (s *SessionIssuer) Issue(userID string) (token string, expiresAt time.Time, err error) {
	if userID == "" {
		return "", time.Time{}, errors.New("user id is required")
	}
	// claims carry whole seconds; T, iat, exp and the cookie must agree
	issuedAt := s.now().Truncate(jwt.TimePrecision)
	expiresAt = issuedAt.Add(s.ttl)

	claims := &sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry and returns the user id. A token
// is accepted strictly before its expiry instant.
func (s *SessionIssuer) Verify(token string) (string, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// expiry is checked below against the injected clock
		jwt.WithoutClaimsValidation(),
	)

	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	if !claims.VerifyExpiresAt(s.now(), true) {
		return "", ErrTokenExpired
	}
	if claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}
