package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/pkg/optional"
)

// UserRequest is the body of POST /users and PATCH /users/{id}. Every field keeps track
// of whether it was supplied so partial updates can tell "absent" from "null".
type UserRequest struct {
	Email  optional.Field[string]        `json:"email"`
	Name   optional.Field[string]        `json:"name"`
	Status optional.Field[domain.Status] `json:"status"`
	Gender optional.Field[domain.Gender] `json:"gender"`
}

// ToPatch converts the request into the domain representation.
func (r UserRequest) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		Email:  r.Email,
		Name:   r.Name,
		Status: r.Status,
		Gender: r.Gender,
	}
}

// DecodeUserRequest parses body strictly: unknown fields, type mismatches and trailing data are rejected.
// An empty body decodes to a request with no fields set.
func DecodeUserRequest(body []byte) (UserRequest, error) {
	var req UserRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return UserRequest{}, domain.ErrInvalidPayload
	}
	// exactly one JSON value per body
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return UserRequest{}, domain.ErrInvalidPayload
	}
	return req, nil
}
