package brand

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateBrand(ctx context.Context, input *dto.CreateBrandInput) (*model.Brand, error)
	GetBrand(ctx context.Context, id string) (*model.Brand, error)
	ListBrands(ctx context.Context, filters *dto.BrandFilters) ([]model.Brand, int, error)
	UpdateBrand(ctx context.Context, input *dto.UpdateBrandInput) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id string) error

	GetBrandStatistics(ctx context.Context, brandID string) (*model.BrandStatistics, error)
	StatisticsInvalidator
}

// StatisticsInvalidator drops cached statistics after product writes.
type StatisticsInvalidator interface {
	InvalidateStatistics(ctx context.Context, brandIDs ...string)
}

// Cache is the subset of the Redis client used for statistics.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}
