package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// LockByID reads the product with a row lock held until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id string) (*model.Product, error)

	SKUExists(ctx context.Context, sku, excludeID string) (bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	CreateImage(ctx context.Context, image *model.ProductImage) error
	FindImageByID(ctx context.Context, id string) (*model.ProductImage, error)
	UpdateImage(ctx context.Context, image *model.ProductImage) error
	DeleteImage(ctx context.Context, id string) error
	ListImages(ctx context.Context, productID string) ([]model.ProductImage, error)
	// ClearPrimary unsets is_primary on every image of productID except exceptID.
	ClearPrimary(ctx context.Context, productID, exceptID string) error
}
