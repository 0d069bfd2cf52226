package account

import (
	"context"
	"fmt"
	"net/http"

	"gopkg.in/gomail.v2"
)

// mailTemplate maps a mail kind to its catalog ids and link target
type mailTemplate struct {
	subjectID string
	bodyID    string
	successID string
	linkPath  string
}

var mailTemplates = map[MailKind]mailTemplate{
	MailConfirmAccount: {
		subjectID: "mail.confirmUser.subject",
		bodyID:    "mail.confirmUser.body",
		successID: "success.mail.confirmUser",
		linkPath:  "/user/confirmation/%s",
	},
	MailResetPassword: {
		subjectID: "mail.resetPassword.subject",
		bodyID:    "mail.resetPassword.body",
		successID: "success.mail.resetPassword",
		linkPath:  "/reset-password?token=%s",
	},
	MailChangeEmail: {
		subjectID: "mail.changeEmail.subject",
		bodyID:    "mail.changeEmail.body",
		successID: "success.mail.changeEmail",
		linkPath:  "/user/change-email/%s",
	},
}

// SMTPMailer delivers account notification emails over SMTP. Subjects
// and bodies resolve through the locale resolver bound to the request
// context, so the recipient gets the language they asked in.
type SMTPMailer struct {
	cfg     MailConfig
	site    Config
	catalog *Catalog
	logger  Logger
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg MailConfig, site Config, catalog *Catalog) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		site:    site,
		catalog: catalog,
		logger:  defLogger{},
	}
}

func (m *SMTPMailer) WithLogger(logger Logger) *SMTPMailer {
	m.logger = logger
	return m
}

// Send composes and delivers the notification for kind. The reset link
// points at the site front end form; confirmation and email change links
// point back at the API token endpoints.
func (m *SMTPMailer) Send(ctx context.Context, kind MailKind, data Notification) Outcome {
	tpl, ok := mailTemplates[kind]
	if !ok {
		return Failure(http.StatusInternalServerError, MsgKey("failure.mail.send"))
	}

	resolver, bound := ResolverFromContext(ctx)
	if !bound {
		resolver = m.catalog.ResolverFor(LocaleFromContext(ctx))
	}

	base := m.site.GetHostname()
	if kind == MailResetPassword {
		base = m.site.GetSiteURL()
	}
	link := base + fmt.Sprintf(tpl.linkPath, data.Token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.GetSender())
	msg.SetHeader("To", data.Email)
	msg.SetHeader("Subject", resolver.Format(tpl.subjectID, nil))
	msg.SetBody("text/plain", resolver.Format(tpl.bodyID, map[string]any{"Link": link}))

	dialer := gomail.NewDialer(
		m.cfg.GetSMTPHost(),
		m.cfg.GetSMTPPort(),
		m.cfg.GetSMTPUsername(),
		m.cfg.GetSMTPPassword(),
	)

	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("mailer: %s to %s failed: %v", kind, data.Email, err)
		return FailureErr(http.StatusInternalServerError, MsgKey("failure.mail.send"), err)
	}

	m.logger.Info("mailer: sent %s to %s", kind, data.Email)
	return OK(MsgKey(tpl.successID))
}
