package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the persistent account model. Email and username carry unique
// indexes; the password field only ever stores a bcrypt hash. ExpireAt is
// set at registration and cleared on confirmation so never-confirmed
// records can be reaped.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Confirmed     bool       `bun:"confirmed,default:false" json:"confirmed,omitempty"`
	ExpireAt      *time.Time `bun:"expire_at,nullzero" json:"expire_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Filter returns a shallow map of the account restricted to the given
// field allow list. Responses never include the password hash.
func (a *Account) Filter(fields ...string) map[string]any {
	all := map[string]any{
		"id":        a.ID.String(),
		"email":     a.Email,
		"username":  a.Username,
		"confirmed": a.Confirmed,
	}

	out := map[string]any{}
	for _, f := range fields {
		if v, ok := all[f]; ok {
			out[f] = v
		}
	}
	return out
}
