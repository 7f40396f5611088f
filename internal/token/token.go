// Package token issues and verifies the signed bearer tokens handed to clients.
//
// Tokens are compact HS256 JWTs: base64url(header) "." base64url(claims) "."
// base64url(HMAC-SHA256). The server keeps no record of issued tokens; a token
// stays valid until its embedded expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

// Claims are the identity assertions embedded in a token.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: secret not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source. Used by tests.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given subject. Role may be empty.
func (c *Codec) Issue(subject, email string, role models.Role) (string, error) {
	now := c.now()

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks structure, signature and expiry. Every failure yields
// common.ErrInvalidToken and no claims.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(c.now),
		// Non-zero trailing bits in a segment must not decode to the same bytes.
		jwt.WithStrictDecoding(),
	)

	var claims Claims
	tok, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, common.ErrInvalidToken
	}

	return &claims, nil
}
