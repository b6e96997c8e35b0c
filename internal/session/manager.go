package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

const DefaultTTL = 8 * time.Hour

// Claims is the signed form of a Context.
type Claims struct {
	Username   string       `json:"username"`
	FullName   string       `json:"name,omitempty"`
	Level      access.Level `json:"lvl"`
	EmployeeID *int64       `json:"emp,omitempty"`
	jwt.RegisteredClaims
}

// RevocationStore remembers logged-out token ids until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  RevocationStore
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, issuer string, store RevocationStore) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		store:  store,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Issue signs a token for the identity in s and returns the completed session.
func (m *Manager) Issue(s Context) (string, Context, error) {
	if !s.Authenticated() {
		return "", Anonymous, errors.New("cannot issue a session for an anonymous identity")
	}

	now := m.now()
	s.TokenID = uuid.NewString()
	s.ExpiresAt = now.Add(m.ttl).Truncate(time.Second)

	claims := &Claims{
		Username:   s.Username,
		FullName:   s.FullName,
		Level:      s.Level,
		EmployeeID: s.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID,
			Subject:   strconv.FormatInt(s.UserID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Anonymous, fmt.Errorf("sign session token: %w", err)
	}
	return signed, s, nil
}

// Resolve validates a token and returns the session it carries.
func (m *Manager) Resolve(ctx context.Context, tokenString string) (Context, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Anonymous, ErrTokenExpired
		}
		return Anonymous, ErrInvalidToken
	}
	if !token.Valid {
		return Anonymous, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Anonymous, ErrInvalidToken
	}

	s := Context{
		UserID:     userID,
		Username:   claims.Username,
		FullName:   claims.FullName,
		Level:      claims.Level,
		EmployeeID: claims.EmployeeID,
		TokenID:    claims.ID,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	if !s.Authenticated() || s.TokenID == "" {
		return Anonymous, ErrInvalidToken
	}

	revoked, err := m.store.IsRevoked(ctx, s.TokenID)
	if err != nil {
		return Anonymous, fmt.Errorf("check session revocation: %w", err)
	}
	if revoked {
		return Anonymous, ErrTokenRevoked
	}

	return s, nil
}

// Revoke ends the session. Revoking an anonymous session is a no-op.
func (m *Manager) Revoke(ctx context.Context, s Context) error {
	if s.TokenID == "" {
		return nil
	}
	return m.store.Revoke(ctx, s.TokenID, s.ExpiresAt)
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}
