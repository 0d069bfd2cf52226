package account_test

import (
	"testing"

	account "github.com/goliatone/go-account"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := account.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)

			err = account.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := account.HashPassword("Correct1Password")
	assert.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		assert.NoError(t, account.ComparePasswordAndHash("Correct1Password", hash))
	})

	t.Run("mismatched password is the distinguished error", func(t *testing.T) {
		err := account.ComparePasswordAndHash("Wrong1Password", hash)
		assert.ErrorIs(t, err, account.ErrMismatchedHashAndPassword)
	})

	t.Run("garbage hash is a system error", func(t *testing.T) {
		err := account.ComparePasswordAndHash("Correct1Password", "not-a-bcrypt-hash")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, account.ErrMismatchedHashAndPassword)
	})
}

func TestRandomPasswordHash(t *testing.T) {
	h1 := account.RandomPasswordHash()
	h2 := account.RandomPasswordHash()

	assert.NotEmpty(t, h1)
	assert.NotEmpty(t, h2)
	assert.NotEqual(t, h1, h2)
}
