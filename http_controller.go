package account

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AccountControllerRoutes are the route paths the controller mounts
type AccountControllerRoutes struct {
	Register      string
	Confirmation  string
	Authenticate  string
	Profile       string
	Password      string
	PasswordReset string
	ChangeEmail   string
}

type AccountController struct {
	Debug      bool
	Logger     Logger
	Routes     *AccountControllerRoutes
	Middleware *Middleware
	Redirector *Redirector

	register      *RegisterAccountHandler
	confirm       *ConfirmAccountHandler
	authenticate  *AuthenticateHandler
	fetchProfile  *FetchProfileHandler
	updateProfile *UpdateProfileHandler
	password      *UpdatePasswordHandler
	resetRequest  *RequestPasswordResetHandler
	resetCommit   *CommitPasswordResetHandler
	emailRequest  *RequestEmailChangeHandler
	emailCommit   *CommitEmailChangeHandler
	deleteAccount *DeleteAccountHandler
}

type AccountControllerOption func(*AccountController) *AccountController

func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Debug = debug
		return c
	}
}

// NewAccountController wires every account operation behind its route.
// storage, tokens, mailer and cfg are shared by the command handlers;
// the middleware and redirector own the cross cutting pieces.
func NewAccountController(
	storage Storage,
	tokens *TokenService,
	mailer Mailer,
	cfg Config,
	catalog *Catalog,
	opts ...AccountControllerOption,
) *AccountController {
	c := &AccountController{
		Logger:     defLogger{},
		Middleware: NewMiddleware(cfg, tokens, storage, catalog),
		Redirector: NewRedirector(cfg),
		Routes: &AccountControllerRoutes{
			Register:      "/user/register",
			Confirmation:  "/user/confirmation/:token",
			Authenticate:  "/user/authenticate",
			Profile:       "/user",
			Password:      "/user/password",
			PasswordReset: "/user/reset-password",
			ChangeEmail:   "/user/change-email",
		},

		register:      NewRegisterAccountHandler(storage, tokens, mailer, cfg),
		confirm:       NewConfirmAccountHandler(storage, tokens),
		authenticate:  NewAuthenticateHandler(storage, tokens, cfg),
		fetchProfile:  NewFetchProfileHandler(),
		updateProfile: NewUpdateProfileHandler(storage),
		password:      NewUpdatePasswordHandler(storage),
		resetRequest:  NewRequestPasswordResetHandler(storage, tokens, mailer, cfg),
		resetCommit:   NewCommitPasswordResetHandler(storage, tokens),
		emailRequest:  NewRequestEmailChangeHandler(storage, tokens, mailer, cfg),
		emailCommit:   NewCommitEmailChangeHandler(storage, tokens),
		deleteAccount: NewDeleteAccountHandler(storage),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// RegisterAccountRoutes mounts the account endpoints on the router.
// Every route runs behind locale negotiation; the profile, password and
// email change routes additionally require a session token.
func RegisterAccountRoutes[T any](app router.Router[T], c *AccountController) {
	locale := c.Middleware.Locale()
	protected := c.Middleware.Protected()

	app.Post(c.Routes.Register, locale(c.RegisterPost)).
		SetName("account.register")
	app.Get(c.Routes.Confirmation, locale(c.ConfirmationGet)).
		SetName("account.confirmation")
	app.Post(c.Routes.Authenticate, locale(c.AuthenticatePost)).
		SetName("account.authenticate")

	app.Get(c.Routes.Profile, locale(protected(c.ProfileGet))).
		SetName("account.profile.get")
	app.Put(c.Routes.Profile, locale(protected(c.ProfilePut))).
		SetName("account.profile.put")
	app.Delete(c.Routes.Profile, locale(protected(c.ProfileDelete))).
		SetName("account.profile.delete")

	app.Put(c.Routes.Password, locale(protected(c.PasswordPut))).
		SetName("account.password.put")

	app.Post(c.Routes.PasswordReset, locale(c.PasswordResetPost)).
		SetName("account.pwd-reset.post")
	app.Put(c.Routes.PasswordReset, locale(c.PasswordResetPut)).
		SetName("account.pwd-reset.put")

	app.Post(c.Routes.ChangeEmail, locale(protected(c.ChangeEmailPost))).
		SetName("account.email-change.post")
	app.Get(fmt.Sprintf("%s/:token", c.Routes.ChangeEmail), locale(c.ChangeEmailGet)).
		SetName("account.email-change.get")
}

// bindPayload decodes the request body and checks it against the rule
// set. A decode failure or rule violation writes the error response and
// reports not ok.
func (a *AccountController) bindPayload(ctx router.Context, rules RuleSet) (map[string]any, bool) {
	body := map[string]any{}
	if err := ctx.Bind(&body); err != nil {
		a.Logger.Debug("payload bind failed: %v", err)
		_ = WriteOutcome(ctx, Failure(http.StatusBadRequest, MsgKey("error.default")))
		return nil, false
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(body))
	}

	if out := rules.Check(body); out != nil {
		_ = WriteOutcome(ctx, *out)
		return nil, false
	}

	return body, true
}

func (a *AccountController) RegisterPost(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, RegisterRules)
	if !ok {
		return nil
	}

	out := a.register.Execute(ctx.Context(), RegisterAccountMessage{
		Email:           str(body, "email"),
		Username:        str(body, "username"),
		Password:        str(body, "password"),
		ConfirmPassword: str(body, "confirmPassword"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) ConfirmationGet(ctx router.Context) error {
	out := a.confirm.Execute(ctx.Context(), ConfirmAccountMessage{
		Token: ctx.Param("token", ""),
	})

	return a.Redirector.Resolve(ctx, out, ConfirmFlow)
}

func (a *AccountController) AuthenticatePost(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, AuthenticateRules)
	if !ok {
		return nil
	}

	out := a.authenticate.Execute(ctx.Context(), AuthenticateMessage{
		Email:    str(body, "email"),
		Password: str(body, "password"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) ProfileGet(ctx router.Context) error {
	acc, _ := FromContext(ctx.Context())

	out := a.fetchProfile.Execute(ctx.Context(), FetchProfileMessage{Account: acc})

	return WriteOutcome(ctx, out, "username", "email")
}

func (a *AccountController) ProfilePut(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, UpdateProfileRules)
	if !ok {
		return nil
	}

	acc, _ := FromContext(ctx.Context())

	out := a.updateProfile.Execute(ctx.Context(), UpdateProfileMessage{
		Account:  acc,
		Username: str(body, "username"),
	})

	return WriteOutcome(ctx, out, "username")
}

func (a *AccountController) ProfileDelete(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, DeleteAccountRules)
	if !ok {
		return nil
	}

	acc, _ := FromContext(ctx.Context())

	out := a.deleteAccount.Execute(ctx.Context(), DeleteAccountMessage{
		Account: acc,
		Email:   str(body, "email"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) PasswordPut(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, UpdatePasswordRules)
	if !ok {
		return nil
	}

	acc, _ := FromContext(ctx.Context())

	out := a.password.Execute(ctx.Context(), UpdatePasswordMessage{
		Account:            acc,
		Password:           str(body, "password"),
		NewPassword:        str(body, "newPassword"),
		ConfirmNewPassword: str(body, "confirmNewPassword"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) PasswordResetPost(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, ResetPasswordRequestRules)
	if !ok {
		return nil
	}

	out := a.resetRequest.Execute(ctx.Context(), RequestPasswordResetMessage{
		Email: str(body, "email"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) PasswordResetPut(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, ResetPasswordCommitRules)
	if !ok {
		return nil
	}

	out := a.resetCommit.Execute(ctx.Context(), CommitPasswordResetMessage{
		Token:              str(body, "token"),
		NewPassword:        str(body, "newPassword"),
		ConfirmNewPassword: str(body, "confirmNewPassword"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) ChangeEmailPost(ctx router.Context) error {
	body, ok := a.bindPayload(ctx, ChangeEmailRules)
	if !ok {
		return nil
	}

	acc, _ := FromContext(ctx.Context())

	out := a.emailRequest.Execute(ctx.Context(), RequestEmailChangeMessage{
		Account:  acc,
		NewEmail: str(body, "newEmail"),
	})

	return WriteOutcome(ctx, out)
}

func (a *AccountController) ChangeEmailGet(ctx router.Context) error {
	out := a.emailCommit.Execute(ctx.Context(), CommitEmailChangeMessage{
		Token: ctx.Param("token", ""),
	})

	return a.Redirector.Resolve(ctx, out, ChangeEmailFlow)
}

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
