package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/payraise-portal/internal/access"
	userDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/payraise-portal/internal/session"
)

// User is a credential record. The hash never leaves this package in a response.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Level        access.Level `json:"security_level"`
	FullName     string       `json:"full_name"`
	EmployeeID   *int64       `json:"employee_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// Repository is the credential store.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
}

// SessionManager issues and ends sessions after credentials were verified.
type SessionManager interface {
	Issue(s session.Context) (string, session.Context, error)
	Resolve(ctx context.Context, token string) (session.Context, error)
	Revoke(ctx context.Context, s session.Context) error
}

// Session returns the identity a successful login establishes.
func (u *User) Session() session.Context {
	return session.Context{
		UserID:     u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Level:      u.Level,
		EmployeeID: u.EmployeeID,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Level:        access.Level(u.SecurityLevel),
		FullName:     u.FullName,
		EmployeeID:   u.EmployeeID,
		CreatedAt:    u.CreatedAt,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		SecurityLevel: int(u.Level),
		FullName:      u.FullName,
		EmployeeID:    u.EmployeeID,
		CreatedAt:     u.CreatedAt,
	}
}
