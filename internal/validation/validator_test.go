package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/pkg/optional"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name    string
		status  optional.Field[domain.Status]
		gender  optional.Field[domain.Gender]
		wantErr string
	}{
		{name: "nothing supplied"},
		{name: "valid values", status: optional.Of(domain.StatusActivated), gender: optional.Of(domain.GenderFemale)},
		{name: "bad status", status: optional.Of(domain.Status(2)), wantErr: statusRule},
		{name: "null status", status: optional.Null[domain.Status](), wantErr: statusRule},
		{name: "bad gender", gender: optional.Of(domain.Gender(9)), wantErr: genderRule},
		{
			name:    "status is reported before gender",
			status:  optional.Of(domain.Status(5)),
			gender:  optional.Of(domain.Gender(5)),
			wantErr: statusRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Fields(tt.status, tt.gender)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("a@x.com"))
	assert.NoError(t, Email("  a@x.com "))
	assert.ErrorIs(t, Email(""), domain.ErrEmailRequired)
	assert.ErrorIs(t, Email("   "), domain.ErrEmailRequired)

	err := Email("not-an-email")
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email address", err.Error())
}

func TestPatch(t *testing.T) {
	t.Run("empty patch is rejected first", func(t *testing.T) {
		assert.ErrorIs(t, Patch(domain.UserPatch{}), domain.ErrEmptyPatch)
	})

	t.Run("null email is rejected", func(t *testing.T) {
		err := Patch(domain.UserPatch{Email: optional.Null[string]()})
		assert.ErrorIs(t, err, domain.ErrEmailRequired)
	})

	t.Run("email is checked before enums", func(t *testing.T) {
		err := Patch(domain.UserPatch{
			Email:  optional.Of("bad"),
			Status: optional.Of(domain.Status(3)),
		})
		require.Error(t, err)
		assert.Equal(t, "email must be a valid email address", err.Error())
	})

	t.Run("name only", func(t *testing.T) {
		assert.NoError(t, Patch(domain.UserPatch{Name: optional.Null[string]()}))
	})
}
