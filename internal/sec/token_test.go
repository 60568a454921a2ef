package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	t.Parallel()

	tkns := NewTokens([]byte("super-secret"), time.Hour)
	assert.False(t, tkns.Insecure())

	tok, err := tkns.Issue(42)
	require.NoError(t, err)

	id, err := tkns.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestGenerateSigningKey(t *testing.T) {
	t.Parallel()

	a, b := GenerateSigningKey(), GenerateSigningKey()
	assert.Len(t, a, 52)
	assert.NotEqual(t, a, b)
}

func TestTokens_Defaults(t *testing.T) {
	t.Parallel()

	tkns := NewTokens(nil, 0)
	assert.True(t, tkns.Insecure())
	assert.Equal(t, DefaultTokenValidity, tkns.Validity())

	tok, err := tkns.Issue(7)
	require.NoError(t, err)
	id, err := NewTokens(DevelopmentSigningKey, time.Hour).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}

func TestTokens_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := issued
	tkns := NewTokens([]byte("secret"), 2*24*time.Hour, WithClock(func() time.Time { return now }))

	tok, err := tkns.Issue(1)
	require.NoError(t, err)

	now = issued.Add(47 * time.Hour)
	_, err = tkns.Verify(tok)
	require.NoError(t, err)

	now = issued.Add(49 * time.Hour)
	_, err = tkns.Verify(tok)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokens_Malformed(t *testing.T) {
	t.Parallel()

	tkns := NewTokens([]byte("right-secret"), time.Hour)

	wrongKey, err := NewTokens([]byte("wrong-secret"), time.Hour).Issue(1)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": 1,
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	otherAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AccountID: 1,
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AccountID: 1,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, err := tkns.Issue(1)
	require.NoError(t, err)
	tampered := valid[:strings.LastIndex(valid, ".")+1] + "AAAA"

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong key", token: wrongKey},
		{name: "tampered signature", token: tampered},
		{name: "missing expiry", token: noExpiry},
		{name: "missing id", token: noID},
		{name: "other algorithm", token: otherAlg},
		{name: "unsigned", token: unsigned},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			id, err := tkns.Verify(test.token)
			require.ErrorIs(t, err, ErrMalformedToken)
			assert.Zero(t, id)
		})
	}
}
