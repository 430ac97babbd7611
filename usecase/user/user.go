package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/internal/validation"
	"github.com/fastygo/users/pkg/logger"
	"github.com/fastygo/users/pkg/optional"
	"github.com/fastygo/users/repository"
)

// UseCase runs validation, persistence and lifecycle rules for users.
// Every method makes at most the store calls it documents; validation failures
// return before the store is touched.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// Create validates fields and stores a new user. Email is the required gate and is
// checked before anything else.
func (uc *UseCase) Create(ctx context.Context, fields domain.UserPatch) (*domain.User, error) {
	email, _ := fields.Email.Get()
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	if err := validation.Fields(fields.Status, fields.Gender); err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:  email,
		Name:   fields.Name.Ptr(),
		Status: domain.StatusInactivated,
		Gender: domain.GenderUnknown,
	}
	if v, ok := fields.Status.Get(); ok {
		user.Status = v
	}
	if v, ok := fields.Gender.Get(); ok {
		user.Gender = v
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("user created", zap.Int64("user_id", created.ID))
	return created, nil
}

// List returns every user ordered by id, never nil.
func (uc *UseCase) List(ctx context.Context) ([]domain.User, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Get returns the user with id or a not-found error.
func (uc *UseCase) Get(ctx context.Context, id int64) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// Update applies a partial update. An empty patch is rejected.
func (uc *UseCase) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Email.Present() {
		patch.Email.Value = strings.TrimSpace(patch.Email.Value)
	}
	if err := validation.Patch(patch); err != nil {
		return nil, err
	}
	return uc.users.Update(ctx, id, patch)
}

// Delete removes the user with id and returns it as it was.
func (uc *UseCase) Delete(ctx context.Context, id int64) (*domain.User, error) {
	deleted, err := uc.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("user deleted", zap.Int64("user_id", id))
	return deleted, nil
}

// Activate moves an inactivated user to activated.
func (uc *UseCase) Activate(ctx context.Context, id int64) (*domain.User, error) {
	return uc.transition(ctx, id, domain.StatusActivated)
}

// Deactivate moves an activated user to inactivated.
func (uc *UseCase) Deactivate(ctx context.Context, id int64) (*domain.User, error) {
	return uc.transition(ctx, id, domain.StatusInactivated)
}

// transition reads the current status, guards, then writes. The read and the write are
// separate store calls and are not fenced: two concurrent calls can both pass the guard.
func (uc *UseCase) transition(ctx context.Context, id int64, target domain.Status) (*domain.User, error) {
	current, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.Status.TransitionTo(target); err != nil {
		return nil, err
	}

	updated, err := uc.users.Update(ctx, id, domain.UserPatch{Status: optional.Of(target)})
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("user status changed",
		zap.Int64("user_id", id),
		zap.Stringer("from", current.Status),
		zap.Stringer("to", updated.Status))
	return updated, nil
}
