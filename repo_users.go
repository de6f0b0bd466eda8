package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var resetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a bun-backed Users store. The users table
// must carry the unique email constraint declared on the model; it is the
// write-time backstop for concurrent registrations.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.getByColumn(ctx, "id", id.String())
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getByColumn(ctx, "email", strings.TrimSpace(email))
}

func (a *users) getByColumn(ctx context.Context, column, value string) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, record *User) (*User, error) {
	// stored trimmed so GetByEmail lookups match
	record.Email = strings.TrimSpace(record.Email)
	prepareUserDefaults(record)

	created, err := a.Repository.CreateTx(ctx, a.db, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return created, nil
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, a.db, resetUserPasswordSQL, passwordHash, id.String())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update user password")
	}

	if len(res) == 0 {
		return ErrUserNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
