package fakeuserrepo

import (
	"sort"
	"sync"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int]*users.User
	usernames map[string]int // username to user id
	emailIds  map[string]int // email to user id
	nextID    int
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[int]*users.User),
		usernames: make(map[string]int),
		emailIds:  make(map[string]int),
		nextID:    1,
	}
}

// Upsert stores a copy of user. A zero ID is assigned the next free one.
func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == 0 {
		user.ID = ur.nextID
	}
	if user.ID >= ur.nextID {
		ur.nextID = user.ID + 1
	}

	if old, ok := ur.users[user.ID]; ok {
		delete(ur.usernames, old.Username)
		delete(ur.emailIds, old.Email)
	}

	stored := *user
	stored.Screens = append([]session.ScreenGrant(nil), user.Screens...)
	ur.users[user.ID] = &stored
	ur.usernames[user.Username] = user.ID
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, consoleerrors.ErrUserNotFound
	}
	return ur.copyOf(id), nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, consoleerrors.ErrUserNotFound
	}
	return ur.copyOf(id), nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	if _, ok := ur.users[id]; !ok {
		return nil, consoleerrors.ErrUserNotFound
	}
	return ur.copyOf(id), nil
}

func (ur *FakeUserRepo) List() ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for id := range ur.users {
		userList = append(userList, ur.copyOf(id))
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})
	return userList, nil
}

func (ur *FakeUserRepo) copyOf(id int) *users.User {
	u := *ur.users[id]
	u.Screens = append([]session.ScreenGrant(nil), u.Screens...)
	return &u
}
