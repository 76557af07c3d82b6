package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-auth-api/internal/auth"
	"go-auth-api/internal/model"
	"go-auth-api/pkg/apierror"
)

func newTestAuthService(t *testing.T, store UserStore) *AuthService {
	t.Helper()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	codec, err := auth.NewTokenCodec("service-test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	svc, err := NewAuthService(store, hasher, codec, 30*time.Minute)
	require.NoError(t, err)
	return svc
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("stores a normalized email and never the plaintext", func(t *testing.T) {
		store := newMemStore()
		svc := newTestAuthService(t, store)

		public, err := svc.Register(context.Background(), "alice", "A@B.com", "pw1")
		require.NoError(t, err)
		require.Equal(t, "a@b.com", public.Email)
		require.Equal(t, "alice", public.Username)
		require.Equal(t, "user", public.Role)
		require.NotEmpty(t, public.ID)
		require.False(t, public.CreatedAt.IsZero())

		stored, err := store.FindByID(context.Background(), public.ID)
		require.NoError(t, err)
		require.Equal(t, "a@b.com", stored.Email)
		require.NotEqual(t, "pw1", stored.PasswordHash)
		require.True(t, auth.NewPasswordHasher(bcrypt.MinCost).Verify("pw1", stored.PasswordHash))
	})

	t.Run("casing and whitespace variants collide", func(t *testing.T) {
		store := newMemStore()
		svc := newTestAuthService(t, store)

		_, err := svc.Register(context.Background(), "alice", "a@b.com", "pw1")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "mallory", " A@B.COM ", "pw2")
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("missing username is a validation error", func(t *testing.T) {
		svc := newTestAuthService(t, newMemStore())

		_, err := svc.Register(context.Background(), "  ", "a@b.com", "pw1")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 422, apiErr.HTTPStatus)
	})

	t.Run("empty password is hashed like any other string", func(t *testing.T) {
		store := newMemStore()
		svc := newTestAuthService(t, store)

		public, err := svc.Register(context.Background(), "alice", "a@b.com", "")
		require.NoError(t, err)

		stored, err := store.FindByID(context.Background(), public.ID)
		require.NoError(t, err)
		require.NotEmpty(t, stored.PasswordHash)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestAuthService(t, store)

	_, err := svc.Register(context.Background(), "alice", "A@B.com", "pw1")
	require.NoError(t, err)

	t.Run("correct credentials yield a verifiable bearer token", func(t *testing.T) {
		tokens, err := svc.Login(context.Background(), "a@b.com", "pw1")
		require.NoError(t, err)
		require.NotEmpty(t, tokens.AccessToken)
		require.Equal(t, "bearer", tokens.TokenType)
		require.Equal(t, int64((30 * time.Minute).Seconds()), tokens.ExpiresIn)
	})

	t.Run("login email is normalized too", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "  A@B.COM ", "pw1")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, wrongPassword := svc.Login(context.Background(), "a@b.com", "nope")
		_, unknownEmail := svc.Login(context.Background(), "nobody@b.com", "pw1")

		require.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
		require.ErrorIs(t, unknownEmail, model.ErrInvalidCredentials)
		require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})
}

func TestAuthService_LoginIssuesSubjectAndEmailClaims(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestAuthService(t, store)

	public, err := svc.Register(context.Background(), "alice", "a@b.com", "pw1")
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "a@b.com", "pw1")
	require.NoError(t, err)

	codec, err := auth.NewTokenCodec("service-test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, public.ID, claims.Subject)
	require.Equal(t, "a@b.com", claims.Email)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}
