package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/pkg/optional"
	"github.com/fastygo/users/repository"
	"github.com/fastygo/users/repository/memory"
)

// countingRepository records how many times each store operation is reached.
type countingRepository struct {
	repository.UserRepository
	calls map[string]int
}

func newCountingRepository() *countingRepository {
	return &countingRepository{
		UserRepository: memory.NewUserRepository(),
		calls:          make(map[string]int),
	}
}

func (r *countingRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.calls["create"]++
	return r.UserRepository.Create(ctx, u)
}

func (r *countingRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.calls["get"]++
	return r.UserRepository.GetByID(ctx, id)
}

func (r *countingRepository) Update(ctx context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	r.calls["update"]++
	return r.UserRepository.Update(ctx, id, p)
}

func (r *countingRepository) total() int {
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

type UseCaseSuite struct {
	suite.Suite
	repo *countingRepository
	uc   *UseCase
	ctx  context.Context
}

func (s *UseCaseSuite) SetupTest() {
	s.repo = newCountingRepository()
	s.uc = New(s.repo, zap.NewNop())
	s.ctx = context.Background()
}

func TestUseCaseSuite(t *testing.T) {
	suite.Run(t, new(UseCaseSuite))
}

func (s *UseCaseSuite) create(email string) *domain.User {
	u, err := s.uc.Create(s.ctx, domain.UserPatch{Email: optional.Of(email)})
	s.Require().NoError(err)
	return u
}

func (s *UseCaseSuite) TestCreate() {
	s.Run("applies defaults", func() {
		u := s.create("a@x.com")
		s.Equal(int64(1), u.ID)
		s.Equal(domain.StatusInactivated, u.Status)
		s.Equal(domain.GenderUnknown, u.Gender)
		s.Nil(u.Name)
		s.False(u.CreatedAt.IsZero())
	})

	s.Run("trims email", func() {
		u := s.create("  b@x.com  ")
		s.Equal("b@x.com", u.Email)
	})

	s.Run("keeps supplied fields", func() {
		u, err := s.uc.Create(s.ctx, domain.UserPatch{
			Email:  optional.Of("c@x.com"),
			Name:   optional.Of("Cy"),
			Status: optional.Of(domain.StatusActivated),
			Gender: optional.Of(domain.GenderMale),
		})
		s.Require().NoError(err)
		s.Require().NotNil(u.Name)
		s.Equal("Cy", *u.Name)
		s.Equal(domain.StatusActivated, u.Status)
		s.Equal(domain.GenderMale, u.Gender)
	})

	s.Run("duplicate email conflicts", func() {
		_, err := s.uc.Create(s.ctx, domain.UserPatch{Email: optional.Of("a@x.com")})
		s.ErrorIs(err, domain.ErrDuplicateEmail)
	})
}

func (s *UseCaseSuite) TestInvalidInputNeverReachesStore() {
	cases := map[string]domain.UserPatch{
		"missing email": {Name: optional.Of("x")},
		"blank email":   {Email: optional.Of("   ")},
		"bad email":     {Email: optional.Of("nope")},
		"bad status":    {Email: optional.Of("a@x.com"), Status: optional.Of(domain.Status(4))},
		"bad gender":    {Email: optional.Of("a@x.com"), Gender: optional.Of(domain.Gender(4))},
	}
	for name, fields := range cases {
		s.Run(name, func() {
			_, err := s.uc.Create(s.ctx, fields)
			s.True(domain.IsDomainError(err, domain.ErrCodeInvalid))
		})
	}

	_, err := s.uc.Update(s.ctx, 1, domain.UserPatch{})
	s.ErrorIs(err, domain.ErrEmptyPatch)

	_, err = s.uc.Update(s.ctx, 1, domain.UserPatch{Gender: optional.Of(domain.Gender(8))})
	s.True(domain.IsDomainError(err, domain.ErrCodeInvalid))

	s.Zero(s.repo.total())
}

func (s *UseCaseSuite) TestMissingEmailReportedFirst() {
	_, err := s.uc.Create(s.ctx, domain.UserPatch{Status: optional.Of(domain.Status(9))})
	s.ErrorIs(err, domain.ErrEmailRequired)
}

func (s *UseCaseSuite) TestUpdate() {
	u := s.create("a@x.com")

	updated, err := s.uc.Update(s.ctx, u.ID, domain.UserPatch{Name: optional.Of("Ada")})
	s.Require().NoError(err)
	s.Require().NotNil(updated.Name)
	s.Equal("Ada", *updated.Name)
	s.Equal("a@x.com", updated.Email)

	_, err = s.uc.Update(s.ctx, 99, domain.UserPatch{Name: optional.Of("x")})
	s.True(domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func (s *UseCaseSuite) TestActivationLifecycle() {
	u := s.create("a@x.com")

	activated, err := s.uc.Activate(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusActivated, activated.Status)

	_, err = s.uc.Activate(s.ctx, u.ID)
	s.Require().Error(err)
	s.True(domain.IsDomainError(err, domain.ErrCodeConflict))
	s.Equal("user is already activated", err.Error())

	updatesBefore := s.repo.calls["update"]
	_, err = s.uc.Activate(s.ctx, u.ID)
	s.Require().Error(err)
	s.Equal(updatesBefore, s.repo.calls["update"], "rejected transition must not write")

	deactivated, err := s.uc.Deactivate(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusInactivated, deactivated.Status)

	_, err = s.uc.Deactivate(s.ctx, u.ID)
	s.Equal("user is already deactivated", err.Error())

	_, err = s.uc.Activate(s.ctx, 404)
	s.True(domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func (s *UseCaseSuite) TestListAndDelete() {
	users, err := s.uc.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(users)
	s.Empty(users)

	a := s.create("a@x.com")
	s.create("b@x.com")

	deleted, err := s.uc.Delete(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("a@x.com", deleted.Email)

	users, err = s.uc.List(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
	s.Equal("b@x.com", users[0].Email)

	_, err = s.uc.Get(s.ctx, a.ID)
	s.True(domain.IsDomainError(err, domain.ErrCodeNotFound))
}
