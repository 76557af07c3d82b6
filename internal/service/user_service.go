package service

import (
	"context"
	"net/http"
	"strings"

	"go-auth-api/internal/model"
	"go-auth-api/pkg/apierror"
)

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// UpdateProfile applies an optional username and/or email change for
// the authenticated user and returns the projection re-read from the
// store after the write, so the caller sees exactly what was persisted.
func (s *UserService) UpdateProfile(ctx context.Context, current model.User, req model.UpdateProfileRequest) (model.PublicUser, error) {
	if req.Username == nil && req.Email == nil {
		return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "at least one of username or email must be provided", "", http.StatusUnprocessableEntity)
	}

	var username *string
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		if trimmed == "" {
			return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "username cannot be empty", "username", http.StatusUnprocessableEntity)
		}
		username = &trimmed
	}

	var email *string
	if req.Email != nil {
		normalized := NormalizeEmail(*req.Email)
		if normalized == "" {
			return model.PublicUser{}, apierror.New("VALIDATION_ERROR", "email cannot be empty", "email", http.StatusUnprocessableEntity)
		}

		taken, err := s.store.ExistsByEmailExcluding(ctx, normalized, current.ID)
		if err != nil {
			return model.PublicUser{}, err
		}
		if taken {
			return model.PublicUser{}, model.ErrUserAlreadyExists
		}
		email = &normalized
	}

	if err := s.store.UpdateProfile(ctx, current.ID, username, email); err != nil {
		return model.PublicUser{}, err
	}

	refreshed, err := s.store.FindByID(ctx, current.ID)
	if err != nil {
		return model.PublicUser{}, err
	}

	return refreshed.Public(), nil
}
