// Package account provides a user-account backend core: registration with
// email confirmation, password authentication, profile updates, and the
// token-driven email-change / password-reset flows.
//
// Action tokens:
//   - Every pending state transition (confirm registration, commit an email
//     change, reset a password) is carried by a signed, expiring action token
//     minted by TokenService. Tokens are never persisted; the signature plus
//     the subject id are the whole credential.
//
// Outcomes:
//   - Every operation resolves to exactly one Outcome: an HTTP status code, a
//     structured message key, and optionally the account document and a token.
//     Message keys are resolved to localized text only at the JSON edge;
//     browser callbacks redirect with an opaque notif code instead.
//
// Storage:
//   - Accounts persist through Bun repositories. Email and username
//     uniqueness is enforced by the database; the Store classifies constraint
//     violations per colliding column so callers can report which field is
//     taken.
package account
