package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/stolasapp/inotebook/internal/notebook"
	"github.com/stolasapp/inotebook/internal/pagination"
	"github.com/stolasapp/inotebook/internal/sec"
)

const msgInternal = "internal error"

// envelope wraps every response body, successful or not.
type envelope struct {
	StatusCode int       `json:"statusCode"`
	HTTPStatus string    `json:"httpStatus"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

var statusReplacer = strings.NewReplacer(" ", "_", "-", "_", "'", "")

// statusName renders the status text of code as upper snake case, e.g.
// NOT_FOUND.
func statusName(code int) string {
	return strings.ToUpper(statusReplacer.Replace(http.StatusText(code)))
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{
		StatusCode: status,
		HTTPStatus: statusName(status),
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	})
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// errorHandler renders err into the response envelope. Errors that are not
// [*echo.HTTPError] values are internal: they are logged and replaced with a
// generic message.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, msgInternal
		var data any
		var httpErr *echo.HTTPError
		if errors.As(toHTTPError(err), &httpErr) {
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
			var verrs validator.ValidationErrors
			if errors.As(httpErr.Internal, &verrs) {
				data = fieldErrors(verrs)
			}
		}

		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed",
				slog.String("route", c.Path()),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.Any("error", err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = respond(c, status, message, data)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to write error response", slog.Any("error", err))
		}
	}
}

// toHTTPError converts an error to an Echo HTTPError with the appropriate
// status code. Errors without a client-facing meaning are returned as-is.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}

	// Already an HTTP error - pass through
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var (
		verrs    validator.ValidationErrors
		tokenErr pagination.TokenError
		opErr    *notebook.Error
	)
	switch {
	case errors.As(err, &verrs):
		return echo.NewHTTPError(http.StatusBadRequest, "validation failed").SetInternal(verrs)
	case errors.As(err, &tokenErr), errors.Is(err, sec.ErrPasswordTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.As(err, &opErr):
		return echo.NewHTTPError(kindToHTTPStatus(opErr.Kind), opErr.Message).SetInternal(err)
	}
	return err
}

func kindToHTTPStatus(kind notebook.Kind) int {
	switch kind {
	case notebook.ErrNotFound:
		return http.StatusNotFound
	case notebook.ErrUnauthorized:
		return http.StatusUnauthorized
	case notebook.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fieldErrors(verrs validator.ValidationErrors) []fieldError {
	out := make([]fieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = fieldError{Field: fe.Field(), Rule: fe.Tag()}
	}
	return out
}
