package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/repository"
)

type userRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
}

// NewUserRepository returns a process-local user repository. Ids start at 1.
func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[int64]domain.User)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return nil, domain.ErrDuplicateEmail
	}

	r.nextID++
	now := time.Now().UTC()
	stored := *user
	stored.ID = r.nextID
	stored.Name = cloneString(user.Name)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = stored

	return copyUser(stored), nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}
	return copyUser(user), nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}
	if email, ok := patch.Email.Get(); ok && r.emailTaken(email, id) {
		return nil, domain.ErrDuplicateEmail
	}

	patch.Apply(&user)
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return copyUser(user), nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}
	delete(r.users, id)
	return copyUser(user), nil
}

// Ping always succeeds.
func (r *userRepository) Ping(context.Context) error {
	return nil
}

func (r *userRepository) emailTaken(email string, except int64) bool {
	for id, u := range r.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func copyUser(u domain.User) *domain.User {
	u.Name = cloneString(u.Name)
	return &u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
