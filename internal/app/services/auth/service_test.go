package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainadmin "vibestays/internal/domain/admin"
	domainauth "vibestays/internal/domain/auth"
	"vibestays/internal/infra/storage/memory"
)

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) NewToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func newService(hasher *mockHasher, tokens *mockTokens) *Service {
	return &Service{
		Users:      memory.NewAdminRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  hasher,
		Tokens:     tokens,
		SessionTTL: time.Hour,
	}
}

func TestCreateAdmin(t *testing.T) {
	hasher := &mockHasher{}
	hasher.On("Hash", "correct horse").Return("hashed", nil).Once()
	svc := newService(hasher, &mockTokens{})

	user, err := svc.CreateAdmin(context.Background(), CreateAdminParams{Email: " Owner@VibeStays.in ", Name: "Owner", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "owner@vibestays.in", user.Email)
	assert.Equal(t, domainadmin.RoleAdmin, user.Role)
	assert.Equal(t, "hashed", user.PasswordHash)

	_, err = svc.CreateAdmin(context.Background(), CreateAdminParams{Email: "x@y.z", Name: "X", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	hasher.AssertExpectations(t)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	hasher := &mockHasher{}
	hasher.On("Hash", "bootstrap-pass").Return("hashed", nil).Once()
	svc := newService(hasher, &mockTokens{})
	params := CreateAdminParams{Email: "admin@vibestays.in", Name: "Admin", Password: "bootstrap-pass"}

	first, created, err := svc.EnsureAdmin(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.EnsureAdmin(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	hasher.AssertExpectations(t)
}

func TestLoginResolveLogout(t *testing.T) {
	hasher := &mockHasher{}
	hasher.On("Hash", "s3cret-pass").Return("hashed", nil)
	hasher.On("Compare", "hashed", "s3cret-pass").Return(nil)
	hasher.On("Compare", "hashed", "wrong-pass").Return(errors.New("mismatch"))
	tokens := &mockTokens{}
	tokens.On("NewToken").Return("tok-1", nil).Once()

	svc := newService(hasher, tokens)
	ctx := context.Background()
	_, err := svc.CreateAdmin(ctx, CreateAdminParams{Email: "admin@vibestays.in", Name: "Admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginParams{Email: "admin@vibestays.in", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginParams{Email: "nobody@vibestays.in", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, LoginParams{Email: "ADMIN@vibestays.in", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.Token("tok-1"), res.Session.Token)
	assert.WithinDuration(t, res.Session.CreatedAt.Add(time.Hour), res.Session.ExpiresAt, time.Second)

	resolved, err := svc.ResolveToken(ctx, " tok-1 ")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, resolved.User.ID)

	require.NoError(t, svc.Logout(ctx, "tok-1"))
	_, err = svc.ResolveToken(ctx, "tok-1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	_, err = svc.ResolveToken(ctx, "")
	assert.ErrorIs(t, err, domainauth.ErrTokenRequired)
	tokens.AssertExpectations(t)
}

func TestResolveToken_ExpiredSession(t *testing.T) {
	hasher := &mockHasher{}
	hasher.On("Hash", mock.Anything).Return("hashed", nil)
	hasher.On("Compare", "hashed", "s3cret-pass").Return(nil)
	tokens := &mockTokens{}
	tokens.On("NewToken").Return("tok-2", nil)

	svc := newService(hasher, tokens)
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, CreateAdminParams{Email: "admin@vibestays.in", Name: "Admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginParams{Email: "admin@vibestays.in", Password: "s3cret-pass"})
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = svc.ResolveToken(ctx, "tok-2")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestService_MissingDependencies(t *testing.T) {
	_, err := (&Service{}).Login(context.Background(), LoginParams{Email: "a@b.c", Password: "x"})
	assert.Error(t, err)
}
