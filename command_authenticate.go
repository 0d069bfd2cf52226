package account

import (
	"context"
	"errors"
	"net/http"
)

type AuthenticateMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e AuthenticateMessage) Type() string { return "account.authenticate" }

// AuthenticateHandler verifies credentials and mints a session token.
// The confirmed check runs before the password comparison, so an
// unconfirmed account is told to confirm rather than being handed a
// password error.
type AuthenticateHandler struct {
	storage Storage
	tokens  *TokenService
	cfg     Config
}

func NewAuthenticateHandler(storage Storage, tokens *TokenService, cfg Config) *AuthenticateHandler {
	return &AuthenticateHandler{
		storage: storage,
		tokens:  tokens,
		cfg:     cfg,
	}
}

func (h *AuthenticateHandler) Execute(ctx context.Context, event AuthenticateMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "authentication")
	default:
		return h.execute(ctx, event)
	}
}

func (h *AuthenticateHandler) execute(ctx context.Context, event AuthenticateMessage) Outcome {
	out := h.storage.FindOne(ctx, "email", event.Email, "key.user")
	if !out.IsSuccess() {
		return out
	}

	if !out.Doc.Confirmed {
		return Failure(http.StatusUnauthorized, MsgKey("error.confirm.account"))
	}

	if err := ComparePasswordAndHash(event.Password, out.Doc.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return Failure(http.StatusBadRequest, MsgKey("failure.hash.matchPassword"))
		}
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.hash"), err)
	}

	token, err := h.tokens.Issue(out.Doc.ID, "", actionTokenTTL(h.cfg))
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.hash"), err)
	}

	return OKToken(MsgKey("success.authentication"), h.cfg.GetAuthScheme()+" "+token)
}
