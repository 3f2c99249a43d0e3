package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainadmin "vibestays/internal/domain/admin"
	domainauth "vibestays/internal/domain/auth"
)

const (
	adminsCollection   = "admin_users"
	sessionsCollection = "admin_sessions"
)

type AdminRepository struct {
	col *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{col: db.Collection(adminsCollection)}
}

func (r *AdminRepository) ByID(ctx context.Context, id domainadmin.ID) (*domainadmin.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *AdminRepository) ByEmail(ctx context.Context, email string) (*domainadmin.User, error) {
	return r.findOne(ctx, bson.M{"email": domainadmin.NormalizeEmail(email)})
}

// Save upserts the user. The unique email index turns a clash into ErrEmailAlreadyUsed.
func (r *AdminRepository) Save(ctx context.Context, user *domainadmin.User) error {
	if user == nil || user.ID == "" {
		return domainadmin.ErrIDRequired
	}
	email := domainadmin.NormalizeEmail(user.Email)
	if email == "" {
		return domainadmin.ErrEmailRequired
	}
	doc := adminDocument{
		ID:           string(user.ID),
		Email:        email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    timeToTimestamp(user.CreatedAt),
		UpdatedAt:    timeToTimestamp(user.UpdatedAt),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainadmin.ErrEmailAlreadyUsed
	}
	return err
}

func (r *AdminRepository) findOne(ctx context.Context, filter bson.M) (*domainadmin.User, error) {
	var doc adminDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainadmin.ErrNotFound
		}
		return nil, err
	}
	return &domainadmin.User{
		ID:           domainadmin.ID(doc.ID),
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		Role:         domainadmin.NormalizeRole(domainadmin.Role(doc.Role)),
		CreatedAt:    timestampToTime(doc.CreatedAt),
		UpdatedAt:    timestampToTime(doc.UpdatedAt),
	}, nil
}

type adminDocument struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	Name         string `bson:"name"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

// SessionStore keeps bearer sessions. Expired documents are removed by the TTL
// index on expires_at, so reads still check expiry.
type SessionStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{col: db.Collection(sessionsCollection), now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if err := session.Storable(); err != nil {
		return err
	}
	doc := sessionDocument{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		Role:      string(session.Role),
		CreatedAt: session.CreatedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.Token}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	var doc sessionDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(token)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	session := &domainauth.Session{
		Token:     domainauth.Token(doc.Token),
		UserID:    domainadmin.ID(doc.UserID),
		Role:      domainadmin.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}
	if session.Expired(s.now()) {
		return nil, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": string(token)})
	return err
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainadmin.ID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": string(userID)})
	return err
}

type sessionDocument struct {
	Token     string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

var (
	_ domainadmin.Repository  = (*AdminRepository)(nil)
	_ domainauth.SessionStore = (*SessionStore)(nil)
)
