package brand

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, brand *model.Brand) error
	FindByID(ctx context.Context, id string) (*model.Brand, error)
	FindAll(ctx context.Context, filters *dto.BrandFilters) ([]model.Brand, int, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id string) error

	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Statistics(ctx context.Context, brandID string) (*model.BrandStatistics, error)
}
