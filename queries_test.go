package account_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	account "github.com/goliatone/go-account"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateAccounts = `CREATE TABLE accounts (
    id UUID PRIMARY KEY,
    email VARCHAR NOT NULL UNIQUE,
    username VARCHAR NOT NULL UNIQUE,
    password_hash VARCHAR NOT NULL,
    confirmed BOOLEAN NOT NULL DEFAULT FALSE,
    expire_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

func setupStore(t *testing.T) (*account.Store, func()) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateAccounts)
	require.NoError(t, err)

	repos := account.NewRepositoryManager(bunDB)
	repos.MustValidate()

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return account.NewStore(bunDB, repos), cleanup
}

func seedAccount(t *testing.T, store *account.Store, email, username string) *account.Account {
	t.Helper()

	out := store.Save(context.Background(), &account.Account{
		Email:        email,
		Username:     username,
		PasswordHash: "x",
	}, "save", "key.user")
	require.True(t, out.IsSuccess(), "seed failed: %v / %v", out.Message, out.Err)
	require.NotNil(t, out.Doc)

	return out.Doc
}

func TestStoreFindOne(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	seeded := seedAccount(t, store, "pepe@example.com", "pepe")

	t.Run("found", func(t *testing.T) {
		out := store.FindOne(context.Background(), "email", "pepe@example.com", "key.user")
		assert.Equal(t, 200, out.Code)
		assert.Equal(t, "success.find|key.user", out.Message.String())
		require.NotNil(t, out.Doc)
		assert.Equal(t, seeded.ID, out.Doc.ID)
	})

	t.Run("missing is a 404 named after the lookup column", func(t *testing.T) {
		out := store.FindOne(context.Background(), "email", "nobody@example.com", "key.user")
		assert.Equal(t, 404, out.Code)
		assert.Equal(t, "error.docNotFound|key.email", out.Message.String())
		assert.Nil(t, out.Err)
	})
}

func TestStoreFindByID(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	seeded := seedAccount(t, store, "pepe@example.com", "pepe")

	t.Run("found", func(t *testing.T) {
		out := store.FindByID(context.Background(), seeded.ID.String(), "key.user")
		assert.Equal(t, 200, out.Code)
		require.NotNil(t, out.Doc)
		assert.Equal(t, "pepe", out.Doc.Username)
	})

	t.Run("unknown id", func(t *testing.T) {
		out := store.FindByID(context.Background(), uuid.NewString(), "key.user")
		assert.Equal(t, 404, out.Code)
		assert.Equal(t, "error.docNotFound|key.id", out.Message.String())
	})

	t.Run("id that is not a uuid fails without reaching the driver", func(t *testing.T) {
		out := store.FindByID(context.Background(), "not-a-uuid", "key.user")
		assert.Equal(t, 400, out.Code)
		assert.Equal(t, "failure.find|key.user", out.Message.String())
		assert.Error(t, out.Err)
	})
}

func TestStoreSave(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	t.Run("insert assigns a deterministic id", func(t *testing.T) {
		out := store.Save(context.Background(), &account.Account{
			Email:        "pepe@example.com",
			Username:     "pepe",
			PasswordHash: "x",
		}, "save", "key.user")

		assert.Equal(t, 200, out.Code)
		assert.Equal(t, "success.save|key.user", out.Message.String())
		require.NotNil(t, out.Doc)
		assert.NotEqual(t, uuid.Nil, out.Doc.ID)
	})

	t.Run("duplicate email is a unique failure without the raw error", func(t *testing.T) {
		out := store.Save(context.Background(), &account.Account{
			Email:        "pepe@example.com",
			Username:     "someoneelse",
			PasswordHash: "x",
		}, "save", "key.user")

		assert.Equal(t, 400, out.Code)
		assert.True(t, out.IsUniqueViolation())
		assert.Equal(t, "email", out.UniqueField())
		assert.Equal(t, "error.unique|key.email", out.Message.String())
		assert.Nil(t, out.Err)
	})

	t.Run("duplicate username names the colliding column", func(t *testing.T) {
		out := store.Save(context.Background(), &account.Account{
			Email:        "other@example.com",
			Username:     "pepe",
			PasswordHash: "x",
		}, "save", "key.user")

		assert.Equal(t, 400, out.Code)
		assert.True(t, out.IsUniqueViolation())
		assert.Equal(t, "username", out.UniqueField())
	})

	t.Run("existing record updates in place", func(t *testing.T) {
		found := store.FindOne(context.Background(), "email", "pepe@example.com", "key.user")
		require.True(t, found.IsSuccess())

		found.Doc.Username = "pepe2"
		out := store.Save(context.Background(), found.Doc, "update", "key.user")

		assert.Equal(t, 200, out.Code)
		assert.Equal(t, "success.update|key.user", out.Message.String())
		assert.Equal(t, "pepe2", out.Doc.Username)
	})
}

func TestStoreUpdateOne(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	seeded := seedAccount(t, store, "pepe@example.com", "pepe")

	t.Run("set and unset in one statement", func(t *testing.T) {
		expire := time.Now().Add(time.Hour)
		setup := store.UpdateOne(context.Background(), "id", seeded.ID,
			map[string]any{"expire_at": expire}, nil, "key.user")
		require.True(t, setup.IsSuccess())

		out := store.UpdateOne(context.Background(), "id", seeded.ID,
			map[string]any{"confirmed": true}, []string{"expire_at"}, "key.user")

		assert.Equal(t, 200, out.Code)
		assert.Equal(t, "success.update|key.user", out.Message.String())
		require.NotNil(t, out.Doc)
		assert.True(t, out.Doc.Confirmed)
		assert.Nil(t, out.Doc.ExpireAt)
	})

	t.Run("no matched row is a 404", func(t *testing.T) {
		out := store.UpdateOne(context.Background(), "id", uuid.New(),
			map[string]any{"confirmed": true}, nil, "key.user")

		assert.Equal(t, 404, out.Code)
		assert.Equal(t, "error.docNotFound|key.id", out.Message.String())
	})

	t.Run("uniqueness collision on update", func(t *testing.T) {
		other := seedAccount(t, store, "other@example.com", "other")

		out := store.UpdateOne(context.Background(), "id", other.ID,
			map[string]any{"email": "pepe@example.com"}, nil, "key.email")

		assert.Equal(t, 400, out.Code)
		assert.True(t, out.IsUniqueViolation())
		assert.Equal(t, "email", out.UniqueField())
	})
}

func TestStoreDeleteOne(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	seeded := seedAccount(t, store, "pepe@example.com", "pepe")

	t.Run("existing record", func(t *testing.T) {
		out := store.DeleteOne(context.Background(), "id", seeded.ID, "key.user")
		assert.Equal(t, 200, out.Code)
		assert.Equal(t, "success.delete|key.user", out.Message.String())
	})

	t.Run("absent record still reports success", func(t *testing.T) {
		out := store.DeleteOne(context.Background(), "id", seeded.ID, "key.user")
		assert.Equal(t, 200, out.Code)
	})
}

func TestUniqueViolationColumn(t *testing.T) {
	sqliteErr := errors.New("UNIQUE constraint failed: accounts.email")

	tests := []struct {
		name    string
		err     error
		wantCol string
		wantOK  bool
	}{
		{name: "nil error"},
		{name: "sqlite message", err: sqliteErr, wantCol: "email", wantOK: true},
		{
			name:    "postgres message",
			err:     errors.New(`ERROR: duplicate key value violates unique constraint "accounts_username_key" (SQLSTATE=23505)`),
			wantCol: "username",
			wantOK:  true,
		},
		{
			name:    "driver error wrapped by the repository layer",
			err:     goerrors.Wrap(sqliteErr, goerrors.CategoryInternal, "An unexpected error occurred."),
			wantCol: "email",
			wantOK:  true,
		},
		{
			name: "violation without a nameable column is not classified",
			err:  errors.New(`duplicate key value violates unique constraint "some_exotic_index"`),
		},
		{name: "unrelated error", err: errors.New("disk I/O error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := account.UniqueViolationColumn(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}
