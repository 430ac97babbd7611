package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/fastygo/users/domain"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolation}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
}

func TestScanUserNoRows(t *testing.T) {
	_, err := scanUser(errRow{err: pgx.ErrNoRows}, 7)
	assert.EqualError(t, err, "user with ID 7 not found")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, err = scanUser(errRow{err: assert.AnError}, 7)
	assert.ErrorIs(t, err, assert.AnError)
}
