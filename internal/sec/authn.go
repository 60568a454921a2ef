package sec

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// Gate rejection messages.
const (
	msgAuthRequired  = "auth required"
	msgTokenRequired = "token required"
	msgTokenExpired  = "token expired"
	msgNotLoggedIn   = "you are not logged in"
)

type principalKey struct{}

// RequireToken returns middleware that authenticates requests with a bearer
// token from the Authorization header. Requests that present no credential, or
// a credential without a bearer token, are rejected as 403 Forbidden. Requests
// whose token fails verification are rejected as 401 Unauthorized. On success
// the principal ID is attached to the request context; see [PrincipalFrom].
func RequireToken(verifier TokenVerifier, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			header := req.Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusForbidden, msgAuthRequired)
			}
			token, ok := bearerToken(header)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, msgTokenRequired)
			}

			principalID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(req.Context(), "token rejected", slog.Any("error", err))
				if errors.Is(err, ErrExpiredToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, msgTokenExpired)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, msgNotLoggedIn)
			}

			c.SetRequest(req.WithContext(WithPrincipal(req.Context(), principalID)))
			return next(c)
		}
	}
}

// bearerToken extracts the token portion of a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// PrincipalFrom returns the authenticated principal ID attached to ctx by
// [RequireToken]. The boolean is false if the request was not authenticated.
func PrincipalFrom(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(principalKey{}).(uint64)
	return id, ok && id != 0
}

// WithPrincipal attaches principalID to ctx. [RequireToken] calls this
// automatically; it is exported for the CLI and tests.
func WithPrincipal(ctx context.Context, principalID uint64) context.Context {
	return context.WithValue(ctx, principalKey{}, principalID)
}
