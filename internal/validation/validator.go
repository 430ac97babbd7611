// Package validation enforces field constraints on user payloads before they reach the store.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/pkg/optional"
)

const (
	statusRule = "status must be 1 (activated) or 0 (inactivated)"
	genderRule = "gender must be 1 (male), 2 (female) or 0 (unknown)"
)

var validate = validator.New()

// Fields checks the enumerated fields that are present. Status is checked before gender
// and the first failing rule is returned.
func Fields(status optional.Field[domain.Status], gender optional.Field[domain.Gender]) error {
	if status.Set {
		if v, ok := status.Get(); !ok || !v.Valid() {
			return domain.Invalid(statusRule)
		}
	}
	if gender.Set {
		if v, ok := gender.Get(); !ok || !v.Valid() {
			return domain.Invalid(genderRule)
		}
	}
	return nil
}

// Email requires a non-blank, syntactically valid address.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrEmailRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return domain.Invalid("email must be a valid email address")
	}
	return nil
}

// Patch validates a partial update: it must carry at least one field, a supplied email
// must be usable, and the enumerated fields must be members of their sets.
func Patch(p domain.UserPatch) error {
	if p.Empty() {
		return domain.ErrEmptyPatch
	}
	if p.Email.Set {
		if err := Email(p.Email.Value); err != nil {
			return err
		}
	}
	return Fields(p.Status, p.Gender)
}
