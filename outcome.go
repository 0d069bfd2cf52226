package account

import (
	"net/http"
	"strings"
)

// Outcome is the single result type every account operation resolves to.
// Exactly one of success (2xx, Doc/Token populated as applicable) or
// failure (4xx/5xx, Message always populated) holds. Err carries the
// underlying storage or library error for server side logging only; it is
// never serialized to a client.
type Outcome struct {
	Code    int
	Message MessageKey
	Doc     *Account
	Token   string
	Err     error
}

// IsSuccess reports whether the outcome carries a 2xx status
func (o Outcome) IsSuccess() bool {
	return o.Code >= 200 && o.Code < 300
}

// IsUniqueViolation reports whether the outcome is a storage uniqueness
// failure. The colliding column rides in the message args as "key.<col>".
func (o Outcome) IsUniqueViolation() bool {
	return o.Message.ID == "error.unique"
}

// UniqueField returns the colliding column of a uniqueness failure
func (o Outcome) UniqueField() string {
	if !o.IsUniqueViolation() || len(o.Message.Args) == 0 {
		return ""
	}
	return strings.TrimPrefix(o.Message.Args[0], "key.")
}

// OK builds a 200 outcome
func OK(msg MessageKey) Outcome {
	return Outcome{Code: http.StatusOK, Message: msg}
}

// OKDoc builds a 200 outcome carrying a document
func OKDoc(msg MessageKey, doc *Account) Outcome {
	return Outcome{Code: http.StatusOK, Message: msg, Doc: doc}
}

// OKToken builds a 200 outcome carrying a token
func OKToken(msg MessageKey, token string) Outcome {
	return Outcome{Code: http.StatusOK, Message: msg, Token: token}
}

// Failure builds a failure outcome with the given status code
func Failure(code int, msg MessageKey) Outcome {
	return Outcome{Code: code, Message: msg}
}

// FailureErr builds a failure outcome and attaches the underlying error
func FailureErr(code int, msg MessageKey, err error) Outcome {
	return Outcome{Code: code, Message: msg, Err: err}
}
