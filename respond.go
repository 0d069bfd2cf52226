package account

import "github.com/goliatone/go-router"

// responseBody is the uniform JSON envelope every endpoint writes
type responseBody struct {
	Msg   string         `json:"msg"`
	Doc   map[string]any `json:"doc,omitempty"`
	Token string         `json:"token,omitempty"`
}

// WriteOutcome serializes an outcome as the uniform JSON envelope. The
// message key resolves through the locale resolver bound to the request
// context; the raw key string is the fallback when none is bound.
// fields filters which document columns a successful outcome exposes,
// and an empty list drops the document entirely.
func WriteOutcome(c router.Context, out Outcome, fields ...string) error {
	msg := out.Message.String()
	if resolver, ok := ResolverFromContext(c.Context()); ok {
		msg = resolver.Resolve(out.Message)
	}

	body := responseBody{Msg: msg}
	if out.IsSuccess() {
		if out.Doc != nil && len(fields) > 0 {
			body.Doc = out.Doc.Filter(fields...)
		}
		body.Token = out.Token
	}

	return c.JSON(out.Code, body)
}
