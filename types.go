package account

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds account module options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetEmailChangeTokenTTL() int
	GetAuthScheme() string
	GetContextKey() string
	GetSiteURL() string
	GetHostname() string
}

// MailConfig holds outbound mail options
type MailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSender() string
}

// MailKind selects the notification template
type MailKind string

const (
	// MailConfirmAccount is the registration confirmation email
	MailConfirmAccount MailKind = "confirm-account"
	// MailResetPassword is the password reset email
	MailResetPassword MailKind = "reset-password"
	// MailChangeEmail is the email change confirmation email
	MailChangeEmail MailKind = "change-email"
)

// Notification is the payload handed to a Mailer
type Notification struct {
	Email string
	Token string
}

// Mailer composes and delivers a notification email. Implementations
// resolve localized subjects through the resolver bound to ctx.
type Mailer interface {
	Send(ctx context.Context, kind MailKind, data Notification) Outcome
}

// Storage is the persistence contract account operations depend on.
// Every method resolves to exactly one Outcome; see Store for the Bun
// backed implementation.
type Storage interface {
	FindOne(ctx context.Context, field string, value any, key string) Outcome
	FindByID(ctx context.Context, id string, key string) Outcome
	Save(ctx context.Context, record *Account, verb, key string) Outcome
	UpdateOne(ctx context.Context, field string, value any, set map[string]any, unset []string, key string) Outcome
	DeleteOne(ctx context.Context, field string, value any, key string) Outcome
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
