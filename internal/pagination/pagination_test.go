package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     any
		wantErr bool
	}{
		{
			name:    "valid message",
			msg:     NotesToken{AfterID: 123},
			wantErr: false,
		},
		{
			name:    "invalid message missing required field",
			msg:     NotesToken{},
			wantErr: true,
		},
		{
			name:    "not a struct",
			msg:     "after 123",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tkn, err := ToToken(tt.msg)
			if tt.wantErr {
				var tokenErr TokenError
				require.ErrorAs(t, err, &tokenErr)
				assert.Empty(t, tkn)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, tkn)
			}
		})
	}
}

func TestFromToken(t *testing.T) {
	t.Parallel()

	validMsg := NotesToken{AfterID: 42}
	validToken, err := ToToken(validMsg)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:    "valid token",
			token:   validToken,
			wantErr: false,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "invalid base64",
			token:   "not-valid-base64!!!",
			wantErr: true,
		},
		{
			name:    "valid base64 invalid json",
			token:   tokenEncoding.EncodeToString([]byte("not json")),
			wantErr: true,
		},
		{
			name:    "valid json fails validation",
			token:   tokenEncoding.EncodeToString([]byte(`{"a":0}`)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out NotesToken
			err := FromToken(tt.token, &out)
			if tt.wantErr {
				var tokenErr TokenError
				require.ErrorAs(t, err, &tokenErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, validMsg, out)
			}
		})
	}
}

func TestPageSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int32(DefaultPageSize), PageSize(0))
	assert.Equal(t, int32(DefaultPageSize), PageSize(-3))
	assert.Equal(t, int32(10), PageSize(10))
	assert.Equal(t, int32(MaxPageSize), PageSize(MaxPageSize+1))
}

func TestTokenErrorMessage(t *testing.T) {
	t.Parallel()

	err := TokenError{cause: errors.New("underlying cause")}
	assert.Equal(t, "invalid pagination token", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "underlying cause")
}
