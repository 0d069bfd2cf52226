package account

import (
	"context"
	"net/http"
)

type DeleteAccountMessage struct {
	Account *Account
	Email   string `json:"email"`
}

func (e DeleteAccountMessage) Type() string { return "account.delete" }

// DeleteAccountHandler removes the account matching the email predicate.
// The caller must hold a valid session; the email names the record to
// destroy and deletion of an absent record still reports success.
type DeleteAccountHandler struct {
	storage Storage
}

func NewDeleteAccountHandler(storage Storage) *DeleteAccountHandler {
	return &DeleteAccountHandler{storage: storage}
}

func (h *DeleteAccountHandler) Execute(ctx context.Context, event DeleteAccountMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "account deletion")
	default:
		return h.execute(ctx, event)
	}
}

func (h *DeleteAccountHandler) execute(ctx context.Context, event DeleteAccountMessage) Outcome {
	if event.Account == nil {
		return Failure(http.StatusUnauthorized, MsgKey("error.unauthorized"))
	}

	return h.storage.DeleteOne(ctx, "email", event.Email, "key.user")
}
