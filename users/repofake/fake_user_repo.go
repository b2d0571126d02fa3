package fakeuserrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[int64]*users.User
	loginIds map[string]int64 // lowercased login to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.User),
		loginIds: make(map[string]int64),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	key := strings.ToLower(user.Login)
	if _, ok := ur.loginIds[key]; ok {
		return errors.Wrapf(errors.ErrAlreadyExists, "user %q", user.Login)
	}

	ur.nextID++
	user.ID = ur.nextID
	stored := *user
	ur.users[user.ID] = &stored
	ur.loginIds[key] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (ur *FakeUserRepo) GetByLogin(ctx context.Context, login string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.loginIds[strings.ToLower(login)]
	ur.lock.RUnlock()

	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return ur.GetByID(ctx, id)
}
