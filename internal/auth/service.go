package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once and compared against when a username does not
// exist, so both failure paths pay for one bcrypt comparison.
const dummyPassword = "payraise-portal-dummy-password"

type Service struct {
	repo       Repository
	sessions   SessionManager
	throttle   *Throttle
	bcryptCost int
	logger     *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(repo Repository, sessions SessionManager, throttle *Throttle, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		throttle:   throttle,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), s.bcryptCost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte(dummyPassword), bcrypt.DefaultCost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Verify checks a username and password. Both an unknown username and a wrong
// password return internal.ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, username, password string) (*User, error) {
	row, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("credential lookup failed", "error", err)
		return nil, internal.NewStorageError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	return FromDataModel(row), nil
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if s.throttle != nil && !s.throttle.Allow(dto.Username) {
		s.logger.Warn("login throttled", "username", dto.Username)
		return nil, internal.ErrTooManyAttempts
	}

	u, err := s.Verify(ctx, dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidCredentials) {
			s.logger.Info("login failed", "username", dto.Username)
		}
		return nil, err
	}

	token, sess, err := s.sessions.Issue(u.Session())
	if err != nil {
		return nil, internal.NewInternalError("could not start session", err)
	}

	s.logger.Info("login succeeded", "user_id", u.ID, "security_level", int(u.Level))
	return &LoginResult{Token: token, Session: sess}, nil
}

// Logout revokes the caller's session token.
func (s *Service) Logout(ctx context.Context, caller session.Context) error {
	if !caller.Authenticated() {
		return internal.ErrLoginRequired
	}
	if err := s.sessions.Revoke(ctx, caller); err != nil {
		s.logger.Error("session revocation failed", "user_id", caller.UserID, "error", err)
		return internal.NewStorageError(err)
	}
	s.logger.Info("logout", "user_id", caller.UserID)
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser provisions a login with a freshly hashed password.
func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByUsername(ctx, dto.Username)
	switch {
	case err == nil:
		return nil, internal.NewValidationFieldError("username", ErrUsernameTaken.Error(), internal.ErrCodeValidationFailed)
	case !errors.Is(err, ErrUserNotFound):
		return nil, internal.NewStorageError(err)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     dto.Username,
		PasswordHash: hash,
		Level:        dto.Level,
		FullName:     dto.FullName,
		EmployeeID:   dto.EmployeeID,
	}
	row := ToDataModel(u)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("user created", "user_id", row.ID, "security_level", row.SecurityLevel)
	return FromDataModel(row), nil
}
