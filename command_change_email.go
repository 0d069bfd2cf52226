package account

import (
	"context"
	"net/http"
	"time"
)

type RequestEmailChangeMessage struct {
	Account  *Account
	NewEmail string `json:"newEmail"`
}

func (e RequestEmailChangeMessage) Type() string { return "account.email.change.request" }

// RequestEmailChangeHandler issues an email change token carrying the
// candidate address and mails it there, so only someone who controls
// the new inbox can commit the change.
type RequestEmailChangeHandler struct {
	storage Storage
	tokens  *TokenService
	mailer  Mailer
	cfg     Config
}

func NewRequestEmailChangeHandler(storage Storage, tokens *TokenService, mailer Mailer, cfg Config) *RequestEmailChangeHandler {
	return &RequestEmailChangeHandler{
		storage: storage,
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
	}
}

func (h *RequestEmailChangeHandler) Execute(ctx context.Context, event RequestEmailChangeMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "email change request")
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestEmailChangeHandler) execute(ctx context.Context, event RequestEmailChangeMessage) Outcome {
	if event.Account == nil {
		return Failure(http.StatusUnauthorized, MsgKey("error.unauthorized"))
	}

	ttl := time.Duration(h.cfg.GetEmailChangeTokenTTL()) * time.Hour
	token, err := h.tokens.Issue(event.Account.ID, event.NewEmail, ttl)
	if err != nil {
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.mail.send"), err)
	}

	sent := h.mailer.Send(ctx, MailChangeEmail, Notification{
		Email: event.NewEmail,
		Token: token,
	})
	if !sent.IsSuccess() {
		return sent
	}

	return OK(MsgKey("success.mail.changeEmail"))
}

type CommitEmailChangeMessage struct {
	Token string `json:"token"`
}

func (e CommitEmailChangeMessage) Type() string { return "account.email.change.commit" }

// CommitEmailChangeHandler swaps the account email to the address the
// verified token carries. A uniqueness collision means the address was
// claimed after the token was issued.
type CommitEmailChangeHandler struct {
	storage Storage
	tokens  *TokenService
}

func NewCommitEmailChangeHandler(storage Storage, tokens *TokenService) *CommitEmailChangeHandler {
	return &CommitEmailChangeHandler{storage: storage, tokens: tokens}
}

func (h *CommitEmailChangeHandler) Execute(ctx context.Context, event CommitEmailChangeMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "email change")
	default:
		return h.execute(ctx, event)
	}
}

func (h *CommitEmailChangeHandler) execute(ctx context.Context, event CommitEmailChangeMessage) Outcome {
	claims, err := h.tokens.Verify(event.Token)
	if err != nil {
		return FailureErr(http.StatusUnauthorized, MsgKey("error.unauthorized"), err)
	}

	if claims.NewEmail == "" {
		return FailureErr(http.StatusUnauthorized, MsgKey("error.unauthorized"), ErrTokenMalformed)
	}

	return h.storage.UpdateOne(ctx, "id", claims.Subject,
		map[string]any{"email": claims.NewEmail}, nil, "key.email")
}
