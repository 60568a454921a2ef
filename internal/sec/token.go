package sec

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is how long an issued token remains valid when no
// window is configured.
const DefaultTokenValidity = 48 * time.Hour

// DevelopmentSigningKey is used when no signing key is configured. It is
// public knowledge; any token signed with it can be forged.
var DevelopmentSigningKey = []byte("inotebook-insecure-development-key")

// Token verification errors.
var (
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")
)

// GenerateSigningKey returns a random printable key with 260 bits of entropy,
// suitable for the configuration file.
func GenerateSigningKey() string {
	return rand.Text() + rand.Text()
}

// TokenVerifier resolves the principal bound to a bearer token.
type TokenVerifier interface {
	Verify(token string) (principalID uint64, err error)
}

type claims struct {
	jwt.RegisteredClaims

	AccountID uint64 `json:"id"`
}

// Tokens issues and verifies HS256 signed bearer tokens carrying an account ID
// as their only application claim. Tokens are not stored and cannot be revoked;
// they stay valid until they expire.
type Tokens struct {
	key      []byte
	insecure bool
	validity time.Duration
	now      func() time.Time
}

// TokenOption customizes [Tokens].
type TokenOption func(*Tokens)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) { t.now = now }
}

// NewTokens creates a token service signing with key. An empty key falls back
// to [DevelopmentSigningKey]; callers should check [Tokens.Insecure] and warn.
// A non-positive validity uses [DefaultTokenValidity].
func NewTokens(key []byte, validity time.Duration, opts ...TokenOption) *Tokens {
	tkns := &Tokens{
		key:      key,
		validity: validity,
		now:      time.Now,
	}
	if len(tkns.key) == 0 {
		tkns.key = DevelopmentSigningKey
		tkns.insecure = true
	}
	if tkns.validity <= 0 {
		tkns.validity = DefaultTokenValidity
	}
	for _, opt := range opts {
		opt(tkns)
	}
	return tkns
}

// Insecure reports whether the service is signing with [DevelopmentSigningKey].
func (t *Tokens) Insecure() bool { return t.insecure }

// Validity returns the lifetime of issued tokens.
func (t *Tokens) Validity() time.Duration { return t.validity }

// Issue returns a signed token for principalID that expires after the
// configured validity window.
func (t *Tokens) Issue(principalID uint64) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
		},
		AccountID: principalID,
	})
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiration of token and returns its
// principal ID. It returns [ErrExpiredToken] once the token has expired and
// [ErrMalformedToken] for every other failure.
func (t *Tokens) Verify(token string) (uint64, error) {
	var parsed claims
	tkn, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, ErrExpiredToken
	case err != nil:
		return 0, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case !tkn.Valid:
		return 0, ErrMalformedToken
	case parsed.AccountID == 0:
		return 0, fmt.Errorf("%w: missing id claim", ErrMalformedToken)
	}
	return parsed.AccountID, nil
}

var _ TokenVerifier = (*Tokens)(nil)
