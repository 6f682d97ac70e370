// Package token encodes and decodes session tokens. A token is an unsigned
// claims blob: base64url over a JSON payload of subject and expiry. Anyone
// holding the encoding scheme can mint one - adding a keyed integrity tag over
// the claims is a known hardening step, deliberately absent from this design.
package token

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/sessionauth/go-session-core/internal/autherrors"
)

// Claims is the structured payload carried by a session token.
type Claims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"` // unix seconds
}

// Expiry returns the expiry claim as a time.Time.
func (c Claims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Codec encodes and decodes session tokens.
type Codec struct {
	now func() time.Time
}

// Option modifies a Codec.
type Option func(*Codec)

// WithNow sets the clock function (primarily for testing)
func WithNow(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(options ...Option) *Codec {
	codec := &Codec{now: time.Now}
	for _, opt := range options {
		opt(codec)
	}
	return codec
}

// Encode builds a token for subject expiring ttl from now. Encoding the same
// subject and ttl at different instants yields different tokens.
func (c *Codec) Encode(subject string, ttl time.Duration) (string, error) {
	claims := Claims{
		Subject:   subject,
		ExpiresAt: c.now().Add(ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", autherrors.Wrapf(err, "[Codec.Encode] json.Marshal")
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// Decode parses tok and validates its expiry. Any parse failure returns
// ErrTokenInvalid; a well-formed token past its expiry returns ErrTokenExpired.
func (c *Codec) Decode(tok string) (*Claims, error) {
	payload, err := base64.URLEncoding.DecodeString(tok)
	if err != nil {
		return nil, autherrors.ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, autherrors.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, autherrors.ErrTokenInvalid
	}

	if claims.ExpiresAt <= c.now().Unix() {
		return nil, autherrors.ErrTokenExpired
	}
	return &claims, nil
}
