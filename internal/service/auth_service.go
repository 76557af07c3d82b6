package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-auth-api/internal/auth"
	"go-auth-api/internal/model"
	"go-auth-api/pkg/apierror"
)

type AuthService struct {
	store    UserStore
	hasher   *auth.PasswordHasher
	codec    *auth.TokenCodec
	tokenTTL time.Duration

	// Hash of an empty secret, compared against on the unknown-email
	// path so login latency does not reveal whether the account exists.
	dummyHash string
}

func NewAuthService(store UserStore, hasher *auth.PasswordHasher, codec *auth.TokenCodec, tokenTTL time.Duration) (*AuthService, error) {
	dummyHash, err := hasher.Hash("")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		store:     store,
		hasher:    hasher,
		codec:     codec,
		tokenTTL:  tokenTTL,
		dummyHash: dummyHash,
	}, nil
}

// NormalizeEmail is the single place email casing and whitespace are
// collapsed; every store read and write goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if username == "" || email == "" {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "username and email are required", "", http.StatusUnprocessableEntity)
	}

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, err
	}
	if exists {
		return model.PublicUser{}, model.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.PublicUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The existence check above is advisory; the unique index on
	// lower(email) closes the race and surfaces here as a conflict.
	if err := s.store.Create(ctx, user); err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenResponse, error) {
	user, err := s.store.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenResponse{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		// Same error as the unknown-email path so the response does
		// not reveal whether the account exists.
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(model.ClaimSet{
		Subject: user.ID,
		Email:   user.Email,
	}, s.tokenTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.effectiveTTL().Seconds()),
	}, nil
}

func (s *AuthService) effectiveTTL() time.Duration {
	if s.tokenTTL > 0 {
		return s.tokenTTL
	}
	return s.codec.DefaultTTL()
}
