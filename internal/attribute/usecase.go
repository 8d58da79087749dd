package attribute

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/attribute/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateAttributeCategory(ctx context.Context, input *dto.CreateAttributeCategoryInput) (*model.AttributeCategory, error)
	ListAttributeCategories(ctx context.Context) ([]model.AttributeCategory, error)

	CreateAttributeType(ctx context.Context, input *dto.CreateAttributeTypeInput) (*model.AttributeType, error)
	UpdateAttributeType(ctx context.Context, input *dto.UpdateAttributeTypeInput) (*model.AttributeType, error)
	ListAttributeTypesByCategory(ctx context.Context, categoryID string) ([]model.AttributeType, error)

	// ValidateAttributeValue reports whether raw is acceptable for the
	// attribute type. The error is reserved for lookup failures.
	ValidateAttributeValue(ctx context.Context, typeID, raw string) (bool, error)
	SetProductAttribute(ctx context.Context, input *dto.SetProductAttributeInput) (*model.ProductAttribute, error)
	DeleteProductAttribute(ctx context.Context, productID, typeID string) error
	ListFormattedAttributes(ctx context.Context, productID string) ([]model.FormattedAttribute, error)
}

type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
