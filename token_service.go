package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ActionClaims is the verified payload of an action token: the account the
// pending transition applies to, plus the candidate address for email
// change tokens.
type ActionClaims struct {
	Subject  uuid.UUID
	NewEmail string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	NewEmail string `json:"email,omitempty"`
}

// TokenService signs and verifies the action tokens that carry pending
// state transitions: session, confirmation, password reset, and email
// change tokens all share the same codec.
type TokenService struct {
	signingKey []byte
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		logger:     logger,
	}
}

// Issue signs an action token for the subject. A non positive ttl is
// accepted and yields a token that is already expired; the email change
// flow relies on this being representable.
func (ts *TokenService) Issue(subject uuid.UUID, newEmail string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		NewEmail: newEmail,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign action token")
	}

	return signed, nil
}

// Verify parses and validates a token string. Failures collapse to exactly
// one of ErrTokenSignatureInvalid, ErrTokenMalformed, or ErrTokenExpired;
// the signature is checked before expiry, and a subject that does not
// parse as a UUID is malformed, never a resolution error.
func (ts *TokenService) Verify(raw string) (*ActionClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token verify encountered unexpected signing method %v", t.Header["alg"])
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ts.signingKey, nil
	})

	if err != nil && errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return nil, ErrTokenSignatureInvalid
	}

	var claims *tokenClaims
	if token != nil {
		claims, _ = token.Claims.(*tokenClaims)
	}
	if claims == nil {
		ts.logger.Error("token verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	// Structural checks come before expiry: a token whose subject is not
	// an identifier is malformed even when it is also expired.
	subject, perr := uuid.Parse(claims.RegisteredClaims.Subject)
	if perr != nil {
		return nil, ErrTokenMalformed
	}

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return &ActionClaims{
		Subject:  subject,
		NewEmail: claims.NewEmail,
	}, nil
}
