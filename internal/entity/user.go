package entity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleUser
}

// CanManageAutomation: só manager e admin criam ou alteram regras.
func (r Role) CanManageAutomation() bool {
	return r == RoleAdmin || r == RoleManager
}

var (
	ErrUserEmailInvalid  = errors.New("email is invalid")
	ErrUserNameRequired  = errors.New("name is required")
	ErrUserRoleInvalid   = errors.New("role must be admin, manager or user")
	ErrUserPasswordShort = errors.New("password must have at least 6 characters")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(email, name, passwordHash string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	u := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    Now(),
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, ErrUserEmailInvalid
	}
	if u.Name == "" {
		return nil, ErrUserNameRequired
	}
	if !u.Role.Valid() {
		return nil, ErrUserRoleInvalid
	}
	return u, nil
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
}
