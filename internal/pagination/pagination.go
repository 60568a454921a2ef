// Package pagination provides utilities around page tokens.
package pagination

import (
	"encoding/base64"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Page size limits for list operations.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

var tokenEncoding = base64.RawURLEncoding

var validate = validator.New(validator.WithRequiredStructEnabled())

// TokenError is an opaque error related to pagination tokens. The error message
// does not reveal internal details; use [errors.Unwrap] to access the cause.
type TokenError struct {
	cause error
}

// Error satisfies [error].
func (terr TokenError) Error() string {
	return "invalid pagination token"
}

// Unwrap returns the underlying cause of the token error.
func (terr TokenError) Unwrap() error {
	return terr.cause
}

// NotesToken resumes a note listing after the last note returned.
type NotesToken struct {
	AfterID uint64 `json:"a" validate:"required"`
}

// FromToken decodes an opaque pagination token into the provided struct
// pointer. Returns a [TokenError] if decoding or validation fails.
func FromToken(tkn string, msg any) error {
	data, err := tokenEncoding.DecodeString(tkn)
	if err != nil {
		return TokenError{cause: err}
	}
	if err = json.Unmarshal(data, msg); err != nil {
		return TokenError{cause: err}
	}
	if err = validate.Struct(msg); err != nil {
		return TokenError{cause: err}
	}
	return nil
}

// ToToken encodes a struct into an opaque pagination token. Returns a
// [TokenError] if validation or encoding fails.
func ToToken(msg any) (string, error) {
	if err := validate.Struct(msg); err != nil {
		return "", TokenError{cause: err}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return "", TokenError{cause: err}
	}
	return tokenEncoding.EncodeToString(data), nil
}

// PageSize clamps a requested page size to (0, [MaxPageSize]], substituting
// [DefaultPageSize] for non-positive values.
func PageSize(requested int32) int32 {
	switch {
	case requested <= 0:
		return DefaultPageSize
	case requested > MaxPageSize:
		return MaxPageSize
	default:
		return requested
	}
}
