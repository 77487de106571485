package repository

import (
	"context"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
)

// CompanyRepository persists issuing companies and their integration settings.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// UpdateIntegration persists only the JoFotara settings block.
	UpdateIntegration(ctx context.Context, company *entity.Company) error
}
