package account

import (
	"context"
	"net/http"
)

type FetchProfileMessage struct {
	Account *Account
}

func (e FetchProfileMessage) Type() string { return "account.profile.fetch" }

// FetchProfileHandler resolves the authenticated account into a profile
// outcome. The middleware already loaded the record, so the handler only
// shapes the result.
type FetchProfileHandler struct{}

func NewFetchProfileHandler() *FetchProfileHandler {
	return &FetchProfileHandler{}
}

func (h *FetchProfileHandler) Execute(ctx context.Context, event FetchProfileMessage) Outcome {
	if event.Account == nil {
		return Failure(http.StatusUnauthorized, MsgKey("error.unauthorized"))
	}
	return OKDoc(MsgKey("success.find", "key.user"), event.Account)
}

type UpdateProfileMessage struct {
	Account  *Account
	Username string `json:"username"`
}

func (e UpdateProfileMessage) Type() string { return "account.profile.update" }

// UpdateProfileHandler applies profile field changes for the
// authenticated account.
type UpdateProfileHandler struct {
	storage Storage
}

func NewUpdateProfileHandler(storage Storage) *UpdateProfileHandler {
	return &UpdateProfileHandler{storage: storage}
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) Outcome {
	select {
	case <-ctx.Done():
		return cancelledOutcome(ctx, "profile update")
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) Outcome {
	if event.Account == nil {
		return Failure(http.StatusUnauthorized, MsgKey("error.unauthorized"))
	}

	set := map[string]any{}
	if event.Username != "" {
		set["username"] = event.Username
	}

	if len(set) == 0 {
		return OKDoc(MsgKey("success.update", "key.user"), event.Account)
	}

	return h.storage.UpdateOne(ctx, "id", event.Account.ID, set, nil, "key.user")
}
