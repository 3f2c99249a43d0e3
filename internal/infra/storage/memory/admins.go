package memory

import (
	"context"
	"sync"
	"time"

	domainadmin "vibestays/internal/domain/admin"
	domainauth "vibestays/internal/domain/auth"
)

type AdminRepository struct {
	mu      sync.RWMutex
	byID    map[domainadmin.ID]*domainadmin.User
	byEmail map[string]domainadmin.ID
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		byID:    make(map[domainadmin.ID]*domainadmin.User),
		byEmail: make(map[string]domainadmin.ID),
	}
}

func (r *AdminRepository) ByID(ctx context.Context, id domainadmin.ID) (*domainadmin.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.byID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, domainadmin.ErrNotFound
}

func (r *AdminRepository) ByEmail(ctx context.Context, email string) (*domainadmin.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainadmin.NormalizeEmail(email)]
	if !ok {
		return nil, domainadmin.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *AdminRepository) Save(ctx context.Context, user *domainadmin.User) error {
	if user == nil || user.ID == "" {
		return domainadmin.ErrIDRequired
	}
	email := domainadmin.NormalizeEmail(user.Email)
	if email == "" {
		return domainadmin.ErrEmailRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byEmail[email]; ok && existing != user.ID {
		return domainadmin.ErrEmailAlreadyUsed
	}
	if prev, ok := r.byID[user.ID]; ok && prev.Email != email {
		delete(r.byEmail, prev.Email)
	}
	cp := *user
	cp.Email = email
	r.byID[user.ID] = &cp
	r.byEmail[email] = user.ID
	return nil
}

// SessionStore keeps bearer sessions in memory and forgets them once expired.
type SessionStore struct {
	mu     sync.Mutex
	tokens map[domainauth.Token]domainauth.Session
	now    func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[domainauth.Token]domainauth.Session), now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if err := session.Storable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[session.Token] = *session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		delete(s.tokens, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainadmin.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.tokens {
		if session.UserID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

var (
	_ domainadmin.Repository  = (*AdminRepository)(nil)
	_ domainauth.SessionStore = (*SessionStore)(nil)
)
