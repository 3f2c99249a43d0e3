package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domainadmin "vibestays/internal/domain/admin"
	domainauth "vibestays/internal/domain/auth"
)

const (
	sessionKeyPrefix     = "vibestays:session:"
	userSessionKeyPrefix = "vibestays:user_sessions:"
)

// SessionStore keeps admin sessions as Redis keys expiring with the session.
type SessionStore struct {
	client KeyValue
	now    func() time.Time
}

func NewSessionStore(client KeyValue) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionPayload struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if err := session.Storable(); err != nil {
		return err
	}
	ttl := session.Remaining(s.now())
	if ttl == 0 {
		return domainauth.ErrTTLInvalid
	}
	payload, err := json.Marshal(sessionPayload{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		Role:      string(session.Role),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+string(session.Token), payload, ttl).Err(); err != nil {
		return err
	}
	userKey := userSessionKeyPrefix + string(session.UserID)
	if err := s.client.SAdd(ctx, userKey, string(session.Token)).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, userKey, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+string(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domainauth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	session := &domainauth.Session{
		Token:     domainauth.Token(p.Token),
		UserID:    domainadmin.ID(p.UserID),
		Role:      domainadmin.Role(p.Role),
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
	}
	if session.Expired(s.now()) {
		return nil, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	return s.client.Del(ctx, sessionKeyPrefix+string(token)).Err()
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainadmin.ID) error {
	userKey := userSessionKeyPrefix + string(userID)
	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKeyPrefix+token)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
