package sec

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tkns := NewTokens([]byte("secret"), time.Hour)
	valid, err := tkns.Issue(99)
	require.NoError(t, err)
	expired, err := NewTokens([]byte("secret"), time.Hour, WithClock(func() time.Time {
		return now.Add(-2 * time.Hour)
	})).Issue(99)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusForbidden,
			wantMsg:    msgAuthRequired,
		},
		{
			name:       "scheme only",
			header:     "Bearer",
			wantStatus: http.StatusForbidden,
			wantMsg:    msgTokenRequired,
		},
		{
			name:       "empty token",
			header:     "Bearer   ",
			wantStatus: http.StatusForbidden,
			wantMsg:    msgTokenRequired,
		},
		{
			name:       "wrong scheme",
			header:     "Basic " + valid,
			wantStatus: http.StatusForbidden,
			wantMsg:    msgTokenRequired,
		},
		{
			name:       "invalid token",
			header:     "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgNotLoggedIn,
		},
		{
			name:       "expired token",
			header:     "Bearer " + expired,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgTokenExpired,
		},
		{
			name:       "valid token",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
			wantMsg:    "99",
		},
		{
			name:       "lowercase scheme",
			header:     "bearer " + valid,
			wantStatus: http.StatusOK,
			wantMsg:    "99",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			called := false
			handler := RequireToken(tkns, slog.New(slog.DiscardHandler))(func(c echo.Context) error {
				called = true
				id, ok := PrincipalFrom(c.Request().Context())
				require.True(t, ok)
				return c.String(http.StatusOK, strconv.FormatUint(id, 10))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.header != "" {
				req.Header.Set(echo.HeaderAuthorization, test.header)
			}
			rec := httptest.NewRecorder()
			err := handler(echo.New().NewContext(req, rec))

			if test.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.True(t, called)
				assert.Equal(t, test.wantMsg, rec.Body.String())
				return
			}

			assert.False(t, called)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, test.wantStatus, httpErr.Code)
			assert.Equal(t, test.wantMsg, httpErr.Message)
		})
	}
}

func TestPrincipalFrom(t *testing.T) {
	t.Parallel()

	_, ok := PrincipalFrom(t.Context())
	assert.False(t, ok)

	_, ok = PrincipalFrom(WithPrincipal(t.Context(), 0))
	assert.False(t, ok)

	id, ok := PrincipalFrom(WithPrincipal(t.Context(), 5))
	assert.True(t, ok)
	assert.Equal(t, uint64(5), id)
}
