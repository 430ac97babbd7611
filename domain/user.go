package domain

import (
	"time"

	"github.com/fastygo/users/pkg/optional"
)

// Status is the activation state of a user.
type Status int

const (
	StatusInactivated Status = 0
	StatusActivated   Status = 1
)

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	return s == StatusInactivated || s == StatusActivated
}

func (s Status) String() string {
	switch s {
	case StatusActivated:
		return "activated"
	case StatusInactivated:
		return "inactivated"
	default:
		return "unknown"
	}
}

// TransitionTo guards a lifecycle transition. Re-applying the current state is rejected
// so callers see their own stale reads instead of a silent success.
func (s Status) TransitionTo(target Status) error {
	if !target.Valid() {
		return Invalid("unsupported target status %d", int(target))
	}
	if s != target {
		return nil
	}
	if target == StatusActivated {
		return Conflict("user is already activated")
	}
	return Conflict("user is already deactivated")
}

// Gender is the declared gender of a user.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
)

// Valid reports whether g is a member of the gender enumeration.
func (g Gender) Valid() bool {
	return g == GenderUnknown || g == GenderMale || g == GenderFemale
}

// User is the managed resource.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Status    Status    `json:"status"`
	Gender    Gender    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch carries a partial update. Absent fields are left untouched;
// a null Name clears the stored name.
type UserPatch struct {
	Email  optional.Field[string]
	Name   optional.Field[string]
	Status optional.Field[Status]
	Gender optional.Field[Gender]
}

// Empty reports whether no field was supplied.
func (p UserPatch) Empty() bool {
	return !p.Email.Set && !p.Name.Set && !p.Status.Set && !p.Gender.Set
}

// Apply writes the supplied fields onto u.
func (p UserPatch) Apply(u *User) {
	if u == nil {
		return
	}
	if v, ok := p.Email.Get(); ok {
		u.Email = v
	}
	if p.Name.Set {
		u.Name = p.Name.Ptr()
	}
	if v, ok := p.Status.Get(); ok {
		u.Status = v
	}
	if v, ok := p.Gender.Get(); ok {
		u.Gender = v
	}
}
