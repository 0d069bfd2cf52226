package account

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes attached to token verification failures so callers can map
// them to redirect notif codes without string matching.
const (
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	TextCodeBadSignature   = "TOKEN_BAD_SIGNATURE"
)

// ErrTokenExpired is returned when a token decodes but its expiry is past
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned for structurally invalid tokens, including
// tokens whose subject is not a valid identifier
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenSignatureInvalid is returned when the token signature does not
// verify against the configured signing key
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeBadSignature)

// ErrMismatchedHashAndPassword is the distinguished no-match result of a
// password comparison, as opposed to a hashing system failure
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects hashing empty secrets
var ErrNoEmptyString = errors.New("refusing to hash an empty string", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenExpired
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for structurally invalid tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenMalformed
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsBadSignatureError will check for signature verification failures
func IsBadSignatureError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeBadSignature
	}
	return strings.Contains(err.Error(), "signature is invalid")
}
