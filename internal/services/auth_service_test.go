package services

import (
	"context"
	"errors"
	"testing"

	"campus-market-backend/internal/models"
	"campus-market-backend/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for email, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return nil
}

func newTestAuthService() *AuthService {
	return NewAuthService(newFakeUserRepo(), auth.NewJWTManager("test-secret", 1, 1))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "customer", registered.User.Role)

	loggedIn, err := svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	assert.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	accessToken, err := svc.Refresh(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	// An access token must not pass as a refresh token.
	_, err = svc.Refresh(registered.AccessToken)
	assert.Error(t, err)
}
