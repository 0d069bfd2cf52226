package account

import (
	"net/http"
	"net/url"

	"github.com/goliatone/go-router"
)

// Notif codes carried to the site front end on redirect responses. The
// redirect flow never exposes localized text or error detail; the front
// end maps these codes to its own copy.
const (
	NotifUserConfirmed = "user_confirmed"
	NotifEmailUpdated  = "email_updated"
	NotifTokenExpired  = "token_expired"
	NotifTokenInvalid  = "token_invalid"
	NotifEmailExists   = "email_exists"
)

// RedirectFlow names the site pages a token callback lands on and the
// notif code a successful callback carries.
type RedirectFlow struct {
	SuccessPage string
	FailurePage string
	Success     string
}

// The two browser-navigated callback flows. Confirmation failures land
// back on the registration page so the user can restart; email change
// failures land on the site root.
var (
	ConfirmFlow     = RedirectFlow{SuccessPage: "login", FailurePage: "register", Success: NotifUserConfirmed}
	ChangeEmailFlow = RedirectFlow{SuccessPage: "login", Success: NotifEmailUpdated}
)

// Redirector resolves outcomes of browser-facing token flows into site
// redirects with a notif query code.
type Redirector struct {
	site   string
	logger Logger
}

func NewRedirector(cfg Config) *Redirector {
	return &Redirector{
		site:   cfg.GetSiteURL(),
		logger: defLogger{},
	}
}

func (r *Redirector) WithLogger(logger Logger) *Redirector {
	r.logger = logger
	return r
}

// Resolve redirects to the flow's landing page with the notif code for
// the outcome: the flow's success code when the outcome succeeded,
// otherwise a failure code classified from the outcome. The underlying
// error, if any, is logged server side only.
func (r *Redirector) Resolve(c router.Context, out Outcome, flow RedirectFlow) error {
	if out.Err != nil {
		r.logger.Error("redirect flow failed: %v", out.Err)
	}

	page := flow.FailurePage
	if out.IsSuccess() {
		page = flow.SuccessPage
	}

	return r.To(c, page, NotifFor(out, flow.Success))
}

// To issues the redirect to the site page with the given notif code
func (r *Redirector) To(c router.Context, page, notif string) error {
	target, err := url.Parse(r.site)
	if err != nil {
		target = &url.URL{Path: "/"}
	}
	if page != "" {
		target = target.JoinPath(page)
	}

	q := target.Query()
	q.Set("notif", notif)
	target.RawQuery = q.Encode()

	return c.Redirect(target.String(), http.StatusFound)
}

// NotifFor classifies an outcome into a notif code. Expired tokens get
// their own code so the front end can offer a resend; every other token
// failure collapses into token_invalid. Uniqueness collisions surface as
// email_exists.
func NotifFor(out Outcome, success string) string {
	switch {
	case out.IsSuccess():
		return success
	case out.IsUniqueViolation():
		return NotifEmailExists
	case IsTokenExpiredError(out.Err):
		return NotifTokenExpired
	default:
		return NotifTokenInvalid
	}
}
