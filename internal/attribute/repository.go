package attribute

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	CreateCategory(ctx context.Context, c *model.AttributeCategory) error
	FindCategoryByID(ctx context.Context, id string) (*model.AttributeCategory, error)
	ListCategories(ctx context.Context) ([]model.AttributeCategory, error)

	CreateType(ctx context.Context, t *model.AttributeType) error
	FindTypeByID(ctx context.Context, id string) (*model.AttributeType, error)
	// FindTypeForShare and FindTypeForUpdate lock the type row until the
	// surrounding transaction ends. Value writes share the lock, kind changes
	// take it exclusively.
	FindTypeForShare(ctx context.Context, id string) (*model.AttributeType, error)
	FindTypeForUpdate(ctx context.Context, id string) (*model.AttributeType, error)
	UpdateType(ctx context.Context, t *model.AttributeType) error
	ListTypesByCategory(ctx context.Context, categoryID string) ([]model.AttributeType, error)

	// UpsertProductAttribute inserts pa or replaces the value already stored
	// for (product, attribute type). pa is refreshed from the stored row.
	UpsertProductAttribute(ctx context.Context, pa *model.ProductAttribute) error
	DeleteProductAttribute(ctx context.Context, productID, typeID string) error
	ListAttributesByType(ctx context.Context, typeID string) ([]model.ProductAttribute, error)
	UpdateProjections(ctx context.Context, pa *model.ProductAttribute) error
	ListFormatted(ctx context.Context, productID string) ([]model.FormattedAttribute, error)
}
