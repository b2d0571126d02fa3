package postgres

import (
	"context"
	"database/sql"

	"github.com/jrsteele09/kitshop-gateway/internal/database"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/users"
)

var _ users.UserRepo = (*UserStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	login         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	api_access_id BIGINT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_login_key ON users (lower(login));`

const selectColumns = `id, login, password_hash, first_name, last_name, api_access_id, created_at`

// UserStore keeps users in postgres
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// EnsureSchema creates the users table when it does not exist
func (s *UserStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create users schema")
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (login, password_hash, first_name, last_name, api_access_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		user.Login,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		nullInt64(user.APIAccessID),
	).Scan(&user.ID, &user.CreatedAt)
	if database.IsUniqueViolation(err) {
		return errors.Wrapf(errors.ErrAlreadyExists, "user %q", user.Login)
	}
	if err != nil {
		return errors.Wrap(err, "failed to insert user")
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*users.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) GetByLogin(ctx context.Context, login string) (*users.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM users WHERE lower(login) = lower($1)`, login)
	return scanUser(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*users.User, error) {
	var (
		user        users.User
		apiAccessID sql.NullInt64
	)
	err := row.Scan(&user.ID, &user.Login, &user.PasswordHash, &user.FirstName, &user.LastName, &apiAccessID, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan user")
	}
	if apiAccessID.Valid {
		user.APIAccessID = &apiAccessID.Int64
	}
	return &user, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
