package account

import (
	"context"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RegisterAccountMessage struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// RegisterAccountHandler creates an unconfirmed account and emails the
// confirmation link.
type RegisterAccountHandler struct {
	storage Storage
	tokens  *TokenService
	mailer  Mailer
	cfg     Config
}

func NewRegisterAccountHandler(storage Storage, tokens *TokenService, mailer Mailer, cfg Config) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		storage: storage,
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
	}
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "account registration")
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) Outcome {
	if event.Password != event.ConfirmPassword {
		return Failure(http.StatusBadRequest, MsgKey("error.match", "key.password", "key.confirmPassword"))
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.hash"), err)
	}

	expireAt := time.Now().Add(actionTokenTTL(h.cfg))
	record := &Account{
		Email:        event.Email,
		Username:     event.Username,
		PasswordHash: hash,
		Confirmed:    false,
		ExpireAt:     &expireAt,
	}

	out := h.storage.Save(ctx, record, "save", "key.user")
	if !out.IsSuccess() {
		return out
	}

	token, err := h.tokens.Issue(out.Doc.ID, "", actionTokenTTL(h.cfg))
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.save", "key.user"), err)
	}

	sent := h.mailer.Send(ctx, MailConfirmAccount, Notification{
		Email: out.Doc.Email,
		Token: token,
	})
	if !sent.IsSuccess() {
		return sent
	}

	return OK(MsgKey("success.mail.confirmUser"))
}

type ConfirmAccountMessage struct {
	Token string `json:"token"`
}

func (e ConfirmAccountMessage) Type() string { return "account.confirm" }

// ConfirmAccountHandler flips the confirmed flag for the account named by
// a verified confirmation token.
type ConfirmAccountHandler struct {
	storage Storage
	tokens  *TokenService
}

func NewConfirmAccountHandler(storage Storage, tokens *TokenService) *ConfirmAccountHandler {
	return &ConfirmAccountHandler{storage: storage, tokens: tokens}
}

func (h *ConfirmAccountHandler) Execute(ctx context.Context, event ConfirmAccountMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "account confirmation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmAccountHandler) execute(ctx context.Context, event ConfirmAccountMessage) Outcome {
	claims, err := h.tokens.Verify(event.Token)
	if err != nil {
		return FailureErr(http.StatusUnauthorized, MsgKey("error.unauthorized"), err)
	}

	return h.storage.UpdateOne(ctx, "id", claims.Subject,
		map[string]any{"confirmed": true}, []string{"expire_at"}, "key.user")
}

func actionTokenTTL(cfg Config) time.Duration {
	return time.Duration(cfg.GetTokenExpiration()) * time.Hour
}

func cancelledOutcome(ctx context.Context, op string) Outcome {
	return FailureErr(
		http.StatusInternalServerError,
		MsgKey("error.default"),
		goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during "+op),
	)
}
