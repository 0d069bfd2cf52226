package account

import (
	"context"
	"errors"
	"net/http"
)

type UpdatePasswordMessage struct {
	Account            *Account
	Password           string `json:"password"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (e UpdatePasswordMessage) Type() string { return "account.password.update" }

// UpdatePasswordHandler rotates the password of an authenticated
// account after re-checking the current one.
type UpdatePasswordHandler struct {
	storage Storage
}

func NewUpdatePasswordHandler(storage Storage) *UpdatePasswordHandler {
	return &UpdatePasswordHandler{storage: storage}
}

func (h *UpdatePasswordHandler) Execute(ctx context.Context, event UpdatePasswordMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "password update")
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdatePasswordHandler) execute(ctx context.Context, event UpdatePasswordMessage) Outcome {
	if event.Account == nil {
		return Failure(http.StatusUnauthorized, MsgKey("error.unauthorized"))
	}

	if event.NewPassword != event.ConfirmNewPassword {
		return Failure(http.StatusBadRequest, MsgKey("error.match", "key.newPassword", "key.confirmNewPassword"))
	}

	if err := ComparePasswordAndHash(event.Password, event.Account.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return Failure(http.StatusBadRequest, MsgKey("failure.hash.matchPassword"))
		}
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.hash"), err)
	}

	hash, err := HashPassword(event.NewPassword)
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.hash"), err)
	}

	return h.storage.UpdateOne(ctx, "id", event.Account.ID,
		map[string]any{"password_hash": hash}, nil, "key.password")
}

type RequestPasswordResetMessage struct {
	Email string `json:"email"`
}

func (e RequestPasswordResetMessage) Type() string { return "account.password.reset.request" }

// RequestPasswordResetHandler emails a reset link to the account that
// owns the address.
type RequestPasswordResetHandler struct {
	storage Storage
	tokens  *TokenService
	mailer  Mailer
	cfg     Config
}

func NewRequestPasswordResetHandler(storage Storage, tokens *TokenService, mailer Mailer, cfg Config) *RequestPasswordResetHandler {
	return &RequestPasswordResetHandler{
		storage: storage,
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
	}
}

func (h *RequestPasswordResetHandler) Execute(ctx context.Context, event RequestPasswordResetMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "password reset request")
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestPasswordResetHandler) execute(ctx context.Context, event RequestPasswordResetMessage) Outcome {
	out := h.storage.FindOne(ctx, "email", event.Email, "key.user")
	if !out.IsSuccess() {
		return out
	}

	token, err := h.tokens.Issue(out.Doc.ID, "", actionTokenTTL(h.cfg))
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.mail.send"), err)
	}

	sent := h.mailer.Send(ctx, MailResetPassword, Notification{
		Email: out.Doc.Email,
		Token: token,
	})
	if !sent.IsSuccess() {
		return sent
	}

	return OK(MsgKey("success.mail.resetPassword"))
}

type CommitPasswordResetMessage struct {
	Token              string `json:"token"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (e CommitPasswordResetMessage) Type() string { return "account.password.reset.commit" }

// CommitPasswordResetHandler sets a new password for the account named
// by a verified reset token.
type CommitPasswordResetHandler struct {
	storage Storage
	tokens  *TokenService
}

func NewCommitPasswordResetHandler(storage Storage, tokens *TokenService) *CommitPasswordResetHandler {
	return &CommitPasswordResetHandler{storage: storage, tokens: tokens}
}

func (h *CommitPasswordResetHandler) Execute(ctx context.Context, event CommitPasswordResetMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "password reset")
	default:
		return h.execute(ctx, event)
	}
}

func (h *CommitPasswordResetHandler) execute(ctx context.Context, event CommitPasswordResetMessage) Outcome {
	if event.NewPassword != event.ConfirmNewPassword {
		return Failure(http.StatusBadRequest, MsgKey("error.match", "key.newPassword", "key.confirmNewPassword"))
	}

	claims, err := h.tokens.Verify(event.Token)
	if err != nil {
		return FailureErr(http.StatusUnauthorized, MsgKey("error.unauthorized"), err)
	}

	hash, err := HashPassword(event.NewPassword)
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.hash"), err)
	}

	return h.storage.UpdateOne(ctx, "id", claims.Subject,
		map[string]any{"password_hash": hash}, nil, "key.password")
}
