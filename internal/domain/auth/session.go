package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"vibestays/internal/domain/admin"
)

var (
	ErrTokenRequired   = errors.New("auth: token is required")
	ErrUserRequired    = errors.New("auth: user is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
)

// Token is the opaque bearer value handed to the admin console.
type Token string

// ParseToken trims a bearer value taken from a header or request body.
func ParseToken(raw string) (Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrTokenRequired
	}
	return Token(raw), nil
}

// Session binds a token to an admin user until ExpiresAt. The role is copied
// at login so the console does not need a user lookup to render.
type Session struct {
	Token     Token
	UserID    admin.ID
	Role      admin.Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

type CreateSessionParams struct {
	Token  Token
	UserID admin.ID
	Role   admin.Role
	TTL    time.Duration
	Now    time.Time
}

func NewSession(params CreateSessionParams) (*Session, error) {
	token, err := ParseToken(string(params.Token))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrUserRequired
	}
	if params.TTL <= 0 {
		return nil, ErrTTLInvalid
	}
	issued := clock(params.Now)
	return &Session{
		Token:     token,
		UserID:    params.UserID,
		Role:      admin.NormalizeRole(params.Role),
		CreatedAt: issued,
		ExpiresAt: issued.Add(params.TTL),
	}, nil
}

// Storable is checked by stores before persisting a session.
func (s *Session) Storable() error {
	if s == nil || s.Token == "" {
		return ErrTokenRequired
	}
	if s.UserID == "" {
		return ErrUserRequired
	}
	return nil
}

// Remaining is the lifetime left at the given instant, zero once expired.
func (s *Session) Remaining(at time.Time) time.Duration {
	left := s.ExpiresAt.Sub(clock(at))
	if left < 0 {
		return 0
	}
	return left
}

func (s *Session) Expired(at time.Time) bool {
	return s.Remaining(at) == 0
}

func clock(at time.Time) time.Time {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC()
}

// SessionStore returns ErrSessionNotFound for unknown and expired tokens.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token Token) (*Session, error)
	Delete(ctx context.Context, token Token) error
	DeleteByUser(ctx context.Context, userID admin.ID) error
}
