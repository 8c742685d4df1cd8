package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// fakeGoogleVerifier accepts a single known token.
type fakeGoogleVerifier struct {
	token   string
	subject string
	email   string
}

func (v *fakeGoogleVerifier) Verify(_ context.Context, idToken string) (string, string, error) {
	if idToken != v.token {
		return "", "", errors.New("token verification failed")
	}
	return v.subject, v.email, nil
}

func newAuthService(users *fakeUserRepo, verifier service.GoogleTokenVerifier) service.AuthService {
	return service.NewAuthService(users, verifier, testJWTSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	auth := newAuthService(users, nil)

	user, err := auth.Register(context.Background(), "user@example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)

	_, err = auth.Register(context.Background(), "user@example.com", "password123", "")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	token, loggedIn, err := auth.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestLogin_WrongCredentials(t *testing.T) {
	users := newFakeUserRepo()
	auth := newAuthService(users, nil)

	_, err := auth.Register(context.Background(), "user@example.com", "password123", "")
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)

	_, _, err = auth.Login(context.Background(), "unknown@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestLogin_TokenClaims(t *testing.T) {
	users := newFakeUserRepo()
	auth := newAuthService(users, nil)

	user, err := auth.Register(context.Background(), "user@example.com", "password123", domain.RoleAdmin)
	require.NoError(t, err)

	token, _, err := auth.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims["uid"])
	assert.Equal(t, string(domain.RoleAdmin), claims["role"])
	assert.Equal(t, "fitness-backend", claims["iss"])
}

func TestLoginWithGoogle_CreatesAccountOnFirstSignIn(t *testing.T) {
	users := newFakeUserRepo()
	verifier := &fakeGoogleVerifier{token: "valid-token", subject: "google-sub-1", email: "google@example.com"}
	auth := newAuthService(users, verifier)

	token, user, err := auth.LoginWithGoogle(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "google@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)

	// Second sign-in resolves the same account.
	_, again, err := auth.LoginWithGoogle(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestLoginWithGoogle_InvalidToken(t *testing.T) {
	users := newFakeUserRepo()
	verifier := &fakeGoogleVerifier{token: "valid-token", subject: "google-sub-1", email: "google@example.com"}
	auth := newAuthService(users, verifier)

	_, _, err := auth.LoginWithGoogle(context.Background(), "forged-token")
	assert.ErrorIs(t, err, service.ErrInvalidGoogleToken)
}

func TestLoginWithGoogle_NotConfigured(t *testing.T) {
	users := newFakeUserRepo()
	auth := newAuthService(users, nil)

	_, _, err := auth.LoginWithGoogle(context.Background(), "any-token")
	assert.Error(t, err)
}
