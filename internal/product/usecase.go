package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/search"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Image ops
	AddImage(ctx context.Context, input *dto.CreateImageInput) (*model.ProductImage, error)
	UpdateImage(ctx context.Context, input *dto.UpdateImageInput) (*model.ProductImage, error)
	SetPrimaryImage(ctx context.Context, imageID string) (*model.ProductImage, error)
	ListImages(ctx context.Context, productID string) ([]model.ProductImage, error)
	DeleteImage(ctx context.Context, id string) error
}

type BrandLookup interface {
	FindByID(ctx context.Context, id string) (*model.Brand, error)
}

type CategoryLookup interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
}

// SearchIndex is the product search backend. *search.Client satisfies it.
type SearchIndex interface {
	Index(ctx context.Context, index, id string, doc interface{}) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}
