package size

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	CreateCategory(ctx context.Context, c *model.SizeCategory) error
	FindCategoryByID(ctx context.Context, id string) (*model.SizeCategory, error)
	ListCategories(ctx context.Context) ([]model.SizeCategory, error)

	CreateOption(ctx context.Context, o *model.SizeOption) error
	FindOptionByID(ctx context.Context, id string) (*model.SizeOption, error)
	ListOptions(ctx context.Context, categoryID string) ([]model.SizeOption, error)
	UpdateOption(ctx context.Context, o *model.SizeOption) error
	CodeExists(ctx context.Context, categoryID, code, excludeID string) (bool, error)

	ListAvailableSizes(ctx context.Context, productID string) ([]model.AvailableSize, error)
}
