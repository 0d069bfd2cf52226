package account

import (
	"errors"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)
	jwtRe      = regexp.MustCompile(`^[\w-]+\.[\w-]+\.[\w-]+$`)
)

// passwordStrength enforces the password rule: at least 8 characters
// with one uppercase letter, one lowercase letter and one digit. RE2 has
// no lookahead, so the rule is a plain scan.
func passwordStrength(value any) error {
	s, _ := value.(string)
	if len(s) < 8 {
		return errPasswordRule
	}

	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper || !lower || !digit {
		return errPasswordRule
	}
	return nil
}

var errPasswordRule = errors.New("password rule violated")

// FieldRule declares the expectations for one payload field. RuleKey
// names the format rule in violation messages; fields that share a
// format (confirmPassword, newEmail) point at the canonical rule id.
type FieldRule struct {
	Field    string
	Required bool
	Rules    []validation.Rule
	RuleKey  string
}

// RuleSet is an ordered field declaration list for one operation payload.
// Violations resolve in declaration order and only the first is reported.
// Undeclared payload fields are stripped, never rejected, unless the rule
// set explicitly disallows them; handlers only ever read declared fields.
type RuleSet struct {
	Fields          []FieldRule
	DisallowUnknown bool
}

// Check validates a decoded payload against the rule set. It returns nil
// when the payload passes, otherwise the failure outcome for the first
// violated rule. Declared fields are checked in declaration order.
func (rs RuleSet) Check(body map[string]any) *Outcome {
	for _, f := range rs.Fields {
		raw, ok := body[f.Field]
		if !ok || raw == nil {
			if f.Required {
				out := Failure(http.StatusBadRequest, MsgKey("error.require", "key."+f.Field))
				return &out
			}
			continue
		}

		s, isString := raw.(string)
		if !isString {
			out := Failure(http.StatusBadRequest, MsgKey("error.type", "key."+f.Field))
			return &out
		}

		if strings.TrimSpace(s) == "" {
			out := Failure(http.StatusBadRequest, MsgKey("error.noEmpty", "key."+f.Field))
			return &out
		}

		if len(f.Rules) > 0 {
			if err := validation.Validate(s, f.Rules...); err != nil {
				ruleKey := f.RuleKey
				if ruleKey == "" {
					ruleKey = f.Field
				}
				out := Failure(http.StatusBadRequest, MsgKey("error.rule."+ruleKey))
				return &out
			}
		}
	}

	if rs.DisallowUnknown {
		declared := map[string]bool{}
		for _, f := range rs.Fields {
			declared[f.Field] = true
		}

		unknown := []string{}
		for k := range body {
			if !declared[k] {
				unknown = append(unknown, k)
			}
		}

		if len(unknown) > 0 {
			sort.Strings(unknown)
			out := Failure(http.StatusBadRequest, MsgKey("error.notAllow", unknown[0]))
			return &out
		}
	}

	return nil
}

// Rule sets for every account operation payload. Declaration order is
// the report order, so required identity fields come before secrets.
var (
	RegisterRules = RuleSet{Fields: []FieldRule{
		{Field: "email", Required: true, Rules: []validation.Rule{is.Email}, RuleKey: "email"},
		{Field: "username", Required: true, Rules: []validation.Rule{validation.Match(usernameRe)}, RuleKey: "username"},
		{Field: "password", Required: true, Rules: []validation.Rule{validation.By(passwordStrength)}, RuleKey: "password"},
		{Field: "confirmPassword", Required: true, Rules: []validation.Rule{validation.By(passwordStrength)}, RuleKey: "password"},
	}}

	AuthenticateRules = RuleSet{Fields: []FieldRule{
		{Field: "email", Required: true, Rules: []validation.Rule{is.Email}, RuleKey: "email"},
		{Field: "password", Required: true},
	}}

	UpdateProfileRules = RuleSet{Fields: []FieldRule{
		{Field: "username", Required: false, Rules: []validation.Rule{validation.Match(usernameRe)}, RuleKey: "username"},
	}}

	UpdatePasswordRules = RuleSet{Fields: []FieldRule{
		{Field: "password", Required: true},
		{Field: "newPassword", Required: true, Rules: []validation.Rule{validation.By(passwordStrength)}, RuleKey: "password"},
		{Field: "confirmNewPassword", Required: true, Rules: []validation.Rule{validation.By(passwordStrength)}, RuleKey: "password"},
	}}

	ResetPasswordRequestRules = RuleSet{Fields: []FieldRule{
		{Field: "email", Required: true, Rules: []validation.Rule{is.Email}, RuleKey: "email"},
	}}

	ResetPasswordCommitRules = RuleSet{Fields: []FieldRule{
		{Field: "token", Required: true, Rules: []validation.Rule{validation.Match(jwtRe)}, RuleKey: "token"},
		{Field: "newPassword", Required: true, Rules: []validation.Rule{validation.By(passwordStrength)}, RuleKey: "password"},
		{Field: "confirmNewPassword", Required: true, Rules: []validation.Rule{validation.By(passwordStrength)}, RuleKey: "password"},
	}}

	ChangeEmailRules = RuleSet{Fields: []FieldRule{
		{Field: "newEmail", Required: true, Rules: []validation.Rule{is.Email}, RuleKey: "email"},
	}}

	DeleteAccountRules = RuleSet{Fields: []FieldRule{
		{Field: "email", Required: true, Rules: []validation.Rule{is.Email}, RuleKey: "email"},
	}}
)

// ValidateBearerToken checks the shape of an Authorization header value
// against the configured scheme and returns the raw token. Any failure,
// whatever the cause, resolves to the same uniform unauthorized outcome
// so the header never leaks which check failed.
func ValidateBearerToken(header, scheme string) (string, *Outcome) {
	unauthorized := Failure(http.StatusUnauthorized, MsgKey("error.unauthorized"))

	if header == "" {
		return "", &unauthorized
	}

	prefix := scheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", &unauthorized
	}

	token := strings.TrimPrefix(header, prefix)
	if !jwtRe.MatchString(token) {
		return "", &unauthorized
	}

	return token, nil
}

// ValidateLanguage gates the Accept-Language header to the locales the
// catalog ships with.
func ValidateLanguage(lang string) *Outcome {
	for _, l := range SupportedLocales {
		if lang == l {
			return nil
		}
	}

	out := Failure(http.StatusBadRequest, MsgKey("error.rule.language"))
	return &out
}
