package repository

import (
	"sync"

	"user-management-service/internal/entity"
)

// UserRepository keeps users in insertion order. All lookups are linear scans
// returning the first match, so duplicate seed usernames resolve to the earliest
// record.
type UserRepository struct {
	mu    sync.RWMutex
	users []entity.User
}

// DefaultSeed returns the records the service starts with.
func DefaultSeed() []entity.User {
	return []entity.User{
		{ID: 0, Username: "admin", Password: "admin"},
		{ID: 1, Username: "Rafa", Password: "123"},
		{ID: 2, Username: "Caio", Password: "123"},
	}
}

// NewUserRepository creates a repository holding seed as-is. Seed records are
// not deduplicated.
func NewUserRepository(seed []entity.User) *UserRepository {
	users := make([]entity.User, len(seed))
	copy(users, seed)
	return &UserRepository{users: users}
}

func (r *UserRepository) GetUserByID(id int) (entity.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return entity.User{}, false
}

func (r *UserRepository) GetUserByUsername(username string) (entity.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, true
		}
	}
	return entity.User{}, false
}

// GetUserByUsernameAndPassword returns the first user matching both username
// and password.
func (r *UserRepository) GetUserByUsernameAndPassword(username, password string) (entity.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username && u.Password == password {
			return u, true
		}
	}
	return entity.User{}, false
}

// CheckCredentials reports whether some user matches both username and
// password. An unknown user and a wrong password both yield false.
func (r *UserRepository) CheckCredentials(username, password string) bool {
	_, ok := r.GetUserByUsernameAndPassword(username, password)
	return ok
}

// UpsertUser overwrites the password of the first user named username, or
// appends a new user whose id is the current collection size. It returns the
// resulting record and whether it was newly created.
func (r *UserRepository) UpsertUser(username, password string) (entity.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Username == username {
			r.users[i].Password = password
			return r.users[i], false
		}
	}

	u := entity.User{ID: len(r.users), Username: username, Password: password}
	r.users = append(r.users, u)
	return u, true
}

// ListUsers returns a copy of every user in insertion order.
func (r *UserRepository) ListUsers() []entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.User, len(r.users))
	copy(out, r.users)
	return out
}

func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
