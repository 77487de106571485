package repository

import (
	"context"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
)

// UserRepository persists API accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndCompany(ctx context.Context, email, companyID string) (*entity.User, error)
}
