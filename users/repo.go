package users

import "context"

// UserRepo stores local accounts. Create assigns the ID and returns errors.ErrAlreadyExists
// for a taken login; lookups return errors.ErrUserNotFound.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
}
