package account

import (
	"embed"
	"encoding/json"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed data/translations
var translationsFS embed.FS

// SupportedLocales are the locales the catalog ships with
var SupportedLocales = []string{"en", "fr"}

// MessageKey is a structured message identifier: the template id plus the
// ids of the vocabulary entries substituted into it. Keys are resolved to
// locale text only when a JSON response is written; redirect responses
// never surface them.
type MessageKey struct {
	ID   string
	Args []string
}

// MsgKey builds a MessageKey
func MsgKey(id string, args ...string) MessageKey {
	return MessageKey{ID: id, Args: args}
}

// IsZero reports whether the key is unset
func (k MessageKey) IsZero() bool {
	return k.ID == ""
}

func (k MessageKey) String() string {
	out := k.ID
	for _, a := range k.Args {
		out += "|" + a
	}
	return out
}

// messageIDs is every template id the package can emit. The catalog is
// checked against this list for every locale at construction time, so a
// missing translation fails startup instead of a request.
var messageIDs = []string{
	"success.save",
	"success.find",
	"success.update",
	"success.delete",
	"success.authentication",
	"success.mail.confirmUser",
	"success.mail.resetPassword",
	"success.mail.changeEmail",
	"failure.save",
	"failure.find",
	"failure.update",
	"failure.delete",
	"failure.hash",
	"failure.hash.matchPassword",
	"failure.mail.send",
	"error.default",
	"error.unauthorized",
	"error.unique",
	"error.docNotFound",
	"error.match",
	"error.confirm.account",
	"error.require",
	"error.noEmpty",
	"error.type",
	"error.notAllow",
	"error.rule.language",
	"error.rule.token",
	"error.rule.email",
	"error.rule.username",
	"error.rule.password",
	"mail.confirmUser.subject",
	"mail.confirmUser.body",
	"mail.resetPassword.subject",
	"mail.resetPassword.body",
	"mail.changeEmail.subject",
	"mail.changeEmail.body",
	"key.user",
	"key.email",
	"key.username",
	"key.password",
	"key.confirmPassword",
	"key.newPassword",
	"key.confirmNewPassword",
	"key.newEmail",
}

// Catalog owns the localized message bundle shared by every request
type Catalog struct {
	bundle *i18n.Bundle
}

// NewCatalog parses the embedded locale files and validates that every
// message id exists in every supported locale.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, locale := range SupportedLocales {
		path := fmt.Sprintf("data/translations/%s.json", locale)
		data, err := translationsFS.ReadFile(path)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "missing embedded locale file "+path)
		}

		if _, err := bundle.ParseMessageFileBytes(data, path); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse locale file "+path)
		}

		if err := validateCatalog(locale, data); err != nil {
			return nil, err
		}
	}

	return &Catalog{bundle: bundle}, nil
}

func validateCatalog(locale string, data []byte) error {
	entries := map[string]any{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "invalid locale file for "+locale)
	}

	missing := []string{}
	for _, id := range messageIDs {
		if _, ok := entries[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		return goerrors.New("locale catalog is incomplete", goerrors.CategoryInternal).
			WithMetadata(map[string]any{
				"locale":  locale,
				"missing": missing,
			})
	}

	return nil
}

// ResolverFor returns a resolver bound to the given locale. Unsupported
// locales fall back to the bundle default.
func (c *Catalog) ResolverFor(locale string) *Resolver {
	return &Resolver{localizer: i18n.NewLocalizer(c.bundle, locale)}
}

// Resolver turns message keys into localized text for a single request
type Resolver struct {
	localizer *i18n.Localizer
}

// Resolve localizes a message key, resolving each vocabulary arg first and
// substituting it into the template. Unknown ids degrade to the raw id
// rather than failing a response.
func (r *Resolver) Resolve(key MessageKey) string {
	if key.IsZero() {
		return ""
	}

	data := map[string]any{}
	switch len(key.Args) {
	case 0:
	case 1:
		data["Key"] = r.text(key.Args[0])
	default:
		data["Key1"] = r.text(key.Args[0])
		data["Key2"] = r.text(key.Args[1])
	}

	return r.Format(key.ID, data)
}

// Format localizes a raw template id with explicit template data. The
// mailer uses it to inject links that are not vocabulary entries.
func (r *Resolver) Format(id string, data map[string]any) string {
	msg, err := r.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

func (r *Resolver) text(id string) string {
	msg, err := r.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}
