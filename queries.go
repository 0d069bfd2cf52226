package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store is the Bun backed Storage implementation. Every method resolves
// to a single Outcome so callers never branch on raw driver errors.
type Store struct {
	db     *bun.DB
	repos  RepositoryManager
	logger Logger
}

var _ Storage = (*Store)(nil)

func NewStore(db *bun.DB, repos RepositoryManager) *Store {
	return &Store{
		db:     db,
		repos:  repos,
		logger: defLogger{},
	}
}

func (s *Store) WithLogger(logger Logger) *Store {
	s.logger = logger
	return s
}

// FindOne looks up a single record by column. A missing record is a 404
// named after the lookup column; any other driver error is a 400 with the
// underlying error attached for logging.
func (s *Store) FindOne(ctx context.Context, field string, value any, key string) Outcome {
	record := &Account{}
	err := s.db.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", field), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Failure(http.StatusNotFound, MsgKey("error.docNotFound", "key."+field))
		}
		s.logger.Error("store: find %s failed: %v", field, err)
		return FailureErr(http.StatusBadRequest, MsgKey("failure.find", key), err)
	}

	return OKDoc(MsgKey("success.find", key), record)
}

// FindByID is FindOne keyed by primary key. A value that does not parse
// as a UUID fails the same way a driver error would.
func (s *Store) FindByID(ctx context.Context, id string, key string) Outcome {
	uid, err := uuid.Parse(id)
	if err != nil {
		return FailureErr(http.StatusBadRequest, MsgKey("failure.find", key), err)
	}
	return s.FindOne(ctx, "id", uid, key)
}

// Save persists a record: insert when it has no identity yet, full update
// otherwise. verb selects the success/failure message family so the same
// method serves both "save" and "update" flows.
func (s *Store) Save(ctx context.Context, record *Account, verb, key string) Outcome {
	var saved *Account
	var err error

	if record.ID == uuid.Nil {
		saved, err = s.repos.Accounts().Register(ctx, record)
	} else {
		saved = record
		_, err = s.db.NewUpdate().
			Model(saved).
			WherePK().
			Returning("*").
			Exec(ctx)
	}

	if err != nil {
		if field, ok := UniqueViolationColumn(err); ok {
			return Failure(http.StatusBadRequest, MsgKey("error.unique", "key."+field))
		}
		s.logger.Error("store: %s failed: %v", verb, err)
		return FailureErr(http.StatusBadRequest, MsgKey("failure."+verb, key), err)
	}

	return OKDoc(MsgKey("success."+verb, key), saved)
}

// UpdateOne applies a partial update to the record matched by column.
// Columns in unset are cleared to NULL. No matched row is a 404 named
// after the lookup column.
func (s *Store) UpdateOne(ctx context.Context, field string, value any, set map[string]any, unset []string, key string) Outcome {
	record := &Account{}
	q := s.db.NewUpdate().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", field), value).
		Returning("*")

	for col, val := range set {
		q = q.Set("? = ?", bun.Ident(col), val)
	}
	for _, col := range unset {
		q = q.Set("? = NULL", bun.Ident(col))
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if col, ok := UniqueViolationColumn(err); ok {
			return Failure(http.StatusBadRequest, MsgKey("error.unique", "key."+col))
		}
		s.logger.Error("store: update %s failed: %v", field, err)
		return FailureErr(http.StatusBadRequest, MsgKey("failure.update", key), err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return Failure(http.StatusNotFound, MsgKey("error.docNotFound", "key."+field))
	}

	return OKDoc(MsgKey("success.update", key), record)
}

// DeleteOne removes the record matched by column. Deletion is reported as
// a success whether or not a row matched; absence and removal are the
// same end state.
func (s *Store) DeleteOne(ctx context.Context, field string, value any, key string) Outcome {
	_, err := s.db.NewDelete().
		Model((*Account)(nil)).
		Where(fmt.Sprintf("?TableAlias.%s = ?", field), value).
		Exec(ctx)

	if err != nil {
		s.logger.Error("store: delete %s failed: %v", field, err)
		return FailureErr(http.StatusBadRequest, MsgKey("failure.delete", key), err)
	}

	return OK(MsgKey("success.delete", key))
}

// IsRecordNotFound reports whether err represents a missing row, from
// either the repository layer or the raw driver.
func IsRecordNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

var (
	sqliteUniqueRe   = regexp.MustCompile(`UNIQUE constraint failed: \w+\.(\w+)`)
	postgresUniqueRe = regexp.MustCompile(`duplicate key value violates unique constraint "\w+?_(\w+?)_key"`)
)

// UniqueViolationColumn extracts the colliding column from a uniqueness
// violation. The repository layer wraps driver errors in its own message,
// so every error in the chain is inspected, not just the outermost one.
// Supported drivers phrase the violation differently; both message shapes
// are recognized. A violation whose column cannot be named is not
// classified and resolves as a generic storage failure.
func UniqueViolationColumn(err error) (string, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()

		if m := sqliteUniqueRe.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
		if m := postgresUniqueRe.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
	}

	return "", false
}
