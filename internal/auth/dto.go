package auth

import (
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/core/common/validation"
	"github.com/frahmantamala/payraise-portal/internal/session"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(64)
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// CreateUserDTO provisions a login. Used by the seeder and the CLI.
type CreateUserDTO struct {
	Username   string
	Password   string
	Level      access.Level
	FullName   string
	EmployeeID *int64
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(64)
	v.Field("password", d.Password).Required().MaxLength(72)
	v.Field("security_level", int(d.Level)).Required().OneOf(internal.ErrCodeInvalidLevel, 1, 2, 3)
	v.Field("full_name", d.FullName).MaxLength(128)
	return v.Validate()
}

// MeResponse describes the current caller and what it may do.
type MeResponse struct {
	session.Context
	Allowed []access.Operation `json:"allowed_operations"`
}

func NewMeResponse(s session.Context, policy access.Checker) MeResponse {
	allowed := policy.Allowed(s.Level)
	if allowed == nil {
		allowed = []access.Operation{}
	}
	return MeResponse{Context: s, Allowed: allowed}
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      MeResponse `json:"user"`
}

type LoginResult struct {
	Token   string
	Session session.Context
}
