package user

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("user: not found")
	ErrEmailInUse    = errors.New("user: email already in use")
	ErrNameRequired  = errors.New("user: name is required")
	ErrEmailRequired = errors.New("user: email is required")
)

type User struct {
	ID    int64
	Name  string
	Email string
}

type CreateParams struct {
	Name  string
	Email string
}

func NewUser(params CreateParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return &User{Name: name, Email: email}, nil
}

// UpdateParams carries a partial update. Nil fields are left unchanged; a
// non-nil field overwrites, so a caller can distinguish "clear" from
// "leave alone".
type UpdateParams struct {
	Name  *string
	Email *string
}

func (u *User) Apply(params UpdateParams) error {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return ErrNameRequired
		}
		u.Name = name
	}
	if params.Email != nil {
		email := normalizeEmail(*params.Email)
		if email == "" {
			return ErrEmailRequired
		}
		u.Email = email
	}
	return nil
}

// Repository assigns IDs on Create and enforces email uniqueness: Create and
// Update return ErrEmailInUse when the email belongs to a different user.
type Repository interface {
	ByID(ctx context.Context, id int64) (*User, error)
	All(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id int64) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
