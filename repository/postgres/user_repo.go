package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/repository"
)

const userColumns = `id, email, name, status, gender, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (email, name, status, gender)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.Email,
		user.Name,
		int16(user.Status),
		int16(user.Gender),
	)
	created, err := scanUser(row, 0)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id), id)
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows, 0)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	const query = `
	UPDATE users
	SET email = CASE WHEN $2::boolean THEN $3::text ELSE email END,
		name = CASE WHEN $4::boolean THEN $5::text ELSE name END,
		status = CASE WHEN $6::boolean THEN $7::smallint ELSE status END,
		gender = CASE WHEN $8::boolean THEN $9::smallint ELSE gender END,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		patch.Email.Present(), patch.Email.Value,
		patch.Name.Set, patch.Name.Ptr(),
		patch.Status.Present(), int16(patch.Status.Value),
		patch.Gender.Present(), int16(patch.Gender.Value),
	)
	updated, err := scanUser(row, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	const query = `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id), id)
}

func (r *userRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// scanUser maps pgx.ErrNoRows to a not-found error for id.
func scanUser(row pgx.Row, id int64) (*domain.User, error) {
	var (
		user   domain.User
		status int16
		gender int16
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&status,
		&gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.UserNotFound(id)
		}
		return nil, err
	}
	user.Status = domain.Status(status)
	user.Gender = domain.Gender(gender)
	return &user, nil
}
