package service

import (
	"context"

	"go-auth-api/internal/model"
)

// UserStore is the slice of the repository the workflows depend on.
// *repository.UserRepository satisfies it; tests use an in-memory fake.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcluding(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateProfile(ctx context.Context, id string, username *string, email *string) error
}
