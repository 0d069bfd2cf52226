package account

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// Middleware builds the request filters every account route runs behind:
// locale negotiation and bearer token authentication.
type Middleware struct {
	cfg     Config
	tokens  *TokenService
	storage Storage
	catalog *Catalog
	logger  Logger
}

func NewMiddleware(cfg Config, tokens *TokenService, storage Storage, catalog *Catalog) *Middleware {
	return &Middleware{
		cfg:     cfg,
		tokens:  tokens,
		storage: storage,
		catalog: catalog,
		logger:  defLogger{},
	}
}

func (m *Middleware) WithLogger(logger Logger) *Middleware {
	m.logger = logger
	return m
}

// Locale gates Accept-Language to the supported locales and binds the
// matching resolver to the request context. Only the language prefix of
// the header matters, so region qualified values like "fr-CA" negotiate
// to "fr". A missing or unsupported header is rejected before any
// handler runs.
func (m *Middleware) Locale() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			lang := c.GetString("Accept-Language", "")
			if len(lang) > 2 {
				lang = lang[:2]
			}

			if out := ValidateLanguage(lang); out != nil {
				c.SetContext(WithResolver(c.Context(), m.catalog.ResolverFor(SupportedLocales[0])))
				return WriteOutcome(c, *out)
			}

			stdCtx := WithLocale(c.Context(), lang)
			stdCtx = WithResolver(stdCtx, m.catalog.ResolverFor(lang))
			c.SetContext(stdCtx)

			return next(c)
		}
	}
}

// Protected authenticates the request from its Authorization header and
// loads the subject account. Every failure in the chain, header shape,
// token verification, or account resolution, collapses to the same
// uniform unauthorized response; a verified token for a deleted account
// is as unauthorized as a forged one.
func (m *Middleware) Protected() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			header := c.GetString("Authorization", "")

			raw, failed := ValidateBearerToken(header, m.cfg.GetAuthScheme())
			if failed != nil {
				return WriteOutcome(c, *failed)
			}

			claims, err := m.tokens.Verify(raw)
			if err != nil {
				m.logger.Debug("auth: token rejected: %v", err)
				return WriteOutcome(c, Failure(http.StatusUnauthorized, MsgKey("error.unauthorized")))
			}

			out := m.storage.FindByID(c.Context(), claims.Subject.String(), "key.user")
			if !out.IsSuccess() {
				m.logger.Debug("auth: account resolution rejected: %s", out.Message.String())
				return WriteOutcome(c, Failure(http.StatusUnauthorized, MsgKey("error.unauthorized")))
			}

			c.Locals(m.cfg.GetContextKey(), out.Doc)
			c.SetContext(WithContext(c.Context(), out.Doc))

			return next(c)
		}
	}
}
