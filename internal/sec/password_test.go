package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "minimum cost", cost: MinimumCost},
		{name: "higher cost", cost: 12},
		{name: "below minimum", cost: bcrypt.MinCost, wantErr: true},
		{name: "above maximum", cost: bcrypt.MaxCost + 1, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			hasher, err := NewHasher(test.cost)
			if test.wantErr {
				require.Error(t, err)
				assert.Nil(t, hasher)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, hasher)
		})
	}
}

func TestHasher(t *testing.T) {
	t.Parallel()

	hasher, err := NewHasher(MinimumCost)
	require.NoError(t, err)

	const password = "longenough1"
	first, err := hasher.Hash(password)
	require.NoError(t, err)
	second, err := hasher.Hash(password)
	require.NoError(t, err)

	t.Run("salted", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, first, second)
	})

	t.Run("cost", func(t *testing.T) {
		t.Parallel()
		cost, err := bcrypt.Cost(first)
		require.NoError(t, err)
		assert.Equal(t, MinimumCost, cost)
	})

	t.Run("correct password", func(t *testing.T) {
		t.Parallel()
		assert.True(t, hasher.Verify(password, first))
		assert.True(t, hasher.Verify(password, second))
	})

	t.Run("incorrect password", func(t *testing.T) {
		t.Parallel()
		assert.False(t, hasher.Verify("wrongpassword", first))
	})

	t.Run("garbage digest", func(t *testing.T) {
		t.Parallel()
		assert.False(t, hasher.Verify(password, []byte("not a digest")))
	})

	t.Run("too long", func(t *testing.T) {
		t.Parallel()
		_, err := hasher.Hash(strings.Repeat("a", maxPasswordLen+1))
		require.ErrorIs(t, err, ErrPasswordTooLong)
	})
}

func TestComparePassword(t *testing.T) {
	t.Parallel()

	password := "correctpassword"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("correct password string", func(t *testing.T) {
		t.Parallel()
		err := ComparePassword(password, hash)
		assert.NoError(t, err)
	})

	t.Run("correct password bytes", func(t *testing.T) {
		t.Parallel()
		err := ComparePassword([]byte(password), hash)
		assert.NoError(t, err)
	})

	t.Run("incorrect password", func(t *testing.T) {
		t.Parallel()
		err := ComparePassword("wrongpassword", hash)
		assert.Error(t, err)
	})
}
