// Package token implements the stateless identity token codec. A token binds
// an account identifier and role to an expiry under a process-wide HS256 key;
// verification is a pure function of the token, the key, and the clock, so no
// session store is consulted on any request.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Claims is the verified identity carried by a token.
type Claims struct {
	Subject string // account identifier
	Role    string
}

// Codec signs and verifies identity tokens. Safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for the given subject, expiring after the configured TTL.
func (c *Codec) Issue(subject, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks the signature and expiry of a raw token and returns its
// claims. Any structural, signature, or expiry failure maps to
// domain.ErrInvalidToken; the cause is not distinguished to callers.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, domain.ErrInvalidToken
	}

	return &Claims{Subject: sub, Role: role}, nil
}
