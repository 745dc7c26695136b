package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrValidation         = errors.New("validation failed")
)

// OwnershipError is returned when an authenticated caller acts on a record it
// does not own. It matches ErrForbidden under errors.Is.
type OwnershipError struct {
	Action Action
}

func (e *OwnershipError) Error() string {
	return "Only owner is allowed to " + string(e.Action)
}

func (e *OwnershipError) Unwrap() error {
	return ErrForbidden
}

// ValidationErrors maps a payload field name to the messages describing why
// it was rejected. It matches ErrValidation under errors.Is.
type ValidationErrors map[string][]string

// Add appends msg to the messages recorded for field.
func (v ValidationErrors) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(v[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
