package size

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/size/dto"
)

type UseCase interface {
	CreateSizeCategory(ctx context.Context, input *dto.CreateSizeCategoryInput) (*model.SizeCategory, error)
	ListSizeCategories(ctx context.Context) ([]model.SizeCategory, error)

	CreateSizeOption(ctx context.Context, input *dto.CreateSizeOptionInput) (*model.SizeOption, error)
	ListSizeOptions(ctx context.Context, categoryID string) ([]model.SizeOption, error)
	UpdateSizeOption(ctx context.Context, input *dto.UpdateSizeOptionInput) (*model.SizeOption, error)

	// ListAvailableSizes reports stock per size over the product's active
	// variations, in size sort order.
	ListAvailableSizes(ctx context.Context, productID string) ([]model.AvailableSize, error)
}
