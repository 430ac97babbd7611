package repository

import (
	"context"

	"github.com/fastygo/users/domain"
)

// UserRepository is the persistence collaborator for users. Each call is atomic.
// Implementations return domain.UserNotFound for unknown ids and
// domain.ErrDuplicateEmail when the email is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

// Pinger is implemented by stores that can report their own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
