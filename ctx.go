package account

import (
	"context"

	"github.com/goliatone/go-router"
)

var accountCtxKey = &contextKey{"account"}
var resolverCtxKey = &contextKey{"resolver"}
var localeCtxKey = &contextKey{"locale"}

type contextKey struct {
	name string
}

// WithContext sets the authenticated Account in the given context
func WithContext(r context.Context, acc *Account) context.Context {
	return context.WithValue(r, accountCtxKey, acc)
}

// FromContext finds the account from the context.
func FromContext(ctx context.Context) (*Account, bool) {
	raw, ok := ctx.Value(accountCtxKey).(*Account)
	return raw, ok
}

// WithResolver binds a locale resolver to the given context
func WithResolver(r context.Context, res *Resolver) context.Context {
	return context.WithValue(r, resolverCtxKey, res)
}

// ResolverFromContext finds the locale resolver bound to the context
func ResolverFromContext(ctx context.Context) (*Resolver, bool) {
	raw, ok := ctx.Value(resolverCtxKey).(*Resolver)
	return raw, ok
}

// WithLocale records the negotiated locale in the given context
func WithLocale(r context.Context, locale string) context.Context {
	return context.WithValue(r, localeCtxKey, locale)
}

// LocaleFromContext finds the negotiated locale, defaulting to the first
// supported locale.
func LocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(localeCtxKey).(string); ok {
		return locale
	}
	return SupportedLocales[0]
}

// GetRouterAccount extracts the authenticated account from the router
// context under the configured key.
func GetRouterAccount(ctx router.Context, key string) (*Account, bool) {
	if key == "" {
		key = "account"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	acc, ok := raw.(*Account)
	return acc, ok
}
