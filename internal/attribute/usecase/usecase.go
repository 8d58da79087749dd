package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/attribute"
	"github.com/fekuna/omnipos-catalog-service/internal/attribute/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/attribute/typecast"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type attributeUseCase struct {
	repo     attribute.Repository
	products attribute.ProductLookup
	tx       postgres.Transactor
	logger   logger.ZapLogger
}

func NewAttributeUseCase(repo attribute.Repository, products attribute.ProductLookup, tx postgres.Transactor, log logger.ZapLogger) attribute.UseCase {
	return &attributeUseCase{
		repo:     repo,
		products: products,
		tx:       tx,
		logger:   log,
	}
}

func (uc *attributeUseCase) CreateAttributeCategory(ctx context.Context, input *dto.CreateAttributeCategoryInput) (*model.AttributeCategory, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c := &model.AttributeCategory{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		SortOrder: input.SortOrder,
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *attributeUseCase) ListAttributeCategories(ctx context.Context) ([]model.AttributeCategory, error) {
	return uc.repo.ListCategories(ctx)
}

func (uc *attributeUseCase) CreateAttributeType(ctx context.Context, input *dto.CreateAttributeTypeInput) (*model.AttributeType, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c, err := uc.repo.FindCategoryByID(ctx, input.AttributeCategoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Wrap(apperr.ErrReferential, "attribute category %q does not exist", input.AttributeCategoryID)
	}

	t := &model.AttributeType{
		ID:                  uuid.New().String(),
		AttributeCategoryID: c.ID,
		Name:                strings.TrimSpace(input.Name),
		DataType:            model.DataKind(input.DataType),
		Unit:                optional(input.Unit),
		ValidationRegex:     optional(input.ValidationRegex),
		AllowedValues:       allowedValues(input.AllowedValues),
		IsFilterable:        input.IsFilterable,
		SortOrder:           input.SortOrder,
	}
	if _, err := typecast.SchemaOf(t); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateAttributeType re-casts every stored value of the type when its data
// kind changes, in the same transaction as the type update.
func (uc *attributeUseCase) UpdateAttributeType(ctx context.Context, input *dto.UpdateAttributeTypeInput) (*model.AttributeType, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var updated *model.AttributeType
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := uc.repo.FindTypeForUpdate(ctx, input.ID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.NotFound("attribute type", input.ID)
		}

		previousKind := t.DataType
		t.Name = strings.TrimSpace(input.Name)
		t.DataType = model.DataKind(input.DataType)
		t.Unit = optional(input.Unit)
		t.ValidationRegex = optional(input.ValidationRegex)
		t.AllowedValues = allowedValues(input.AllowedValues)
		t.IsFilterable = input.IsFilterable
		t.SortOrder = input.SortOrder

		if _, err := typecast.SchemaOf(t); err != nil {
			return err
		}
		if err := uc.repo.UpdateType(ctx, t); err != nil {
			return err
		}

		if t.DataType != previousKind {
			if err := uc.recast(ctx, t); err != nil {
				return err
			}
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *attributeUseCase) recast(ctx context.Context, t *model.AttributeType) error {
	values, err := uc.repo.ListAttributesByType(ctx, t.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	unparsed := 0
	for i := range values {
		pa := &values[i]
		v := typecast.Cast(t.DataType, pa.Value)
		v.Apply(pa)
		pa.UpdatedAt = now
		if projected(t.DataType) && !hasProjection(v) {
			unparsed++
		}
		if err := uc.repo.UpdateProjections(ctx, pa); err != nil {
			return err
		}
	}

	uc.logger.Info("attribute values re-cast",
		zap.String("attribute_type_id", t.ID),
		zap.String("data_type", string(t.DataType)),
		zap.Int("values", len(values)),
		zap.Int("unparsed", unparsed),
	)
	return nil
}

func (uc *attributeUseCase) ListAttributeTypesByCategory(ctx context.Context, categoryID string) ([]model.AttributeType, error) {
	return uc.repo.ListTypesByCategory(ctx, categoryID)
}

func (uc *attributeUseCase) ValidateAttributeValue(ctx context.Context, typeID, raw string) (bool, error) {
	schema, err := uc.schema(ctx, typeID)
	if err != nil {
		return false, err
	}

	if err := typecast.Validate(schema, raw); err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetProductAttribute holds a share lock on the attribute type while it
// validates, casts and stores, so a concurrent kind change waits for it and
// then re-casts the stored row.
func (uc *attributeUseCase) SetProductAttribute(ctx context.Context, input *dto.SetProductAttributeInput) (*model.ProductAttribute, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var stored *model.ProductAttribute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.products.FindByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.Wrap(apperr.ErrReferential, "product %q does not exist", input.ProductID)
		}

		t, err := uc.repo.FindTypeForShare(ctx, input.AttributeTypeID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.Wrap(apperr.ErrReferential, "attribute type %q does not exist", input.AttributeTypeID)
		}
		schema, err := typecast.SchemaOf(t)
		if err != nil {
			return err
		}
		if err := typecast.Validate(schema, input.Value); err != nil {
			return err
		}

		now := time.Now()
		pa := &model.ProductAttribute{
			BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ProductID:       input.ProductID,
			AttributeTypeID: t.ID,
		}
		typecast.Cast(t.DataType, input.Value).Apply(pa)

		if err := uc.repo.UpsertProductAttribute(ctx, pa); err != nil {
			return err
		}
		stored = pa
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (uc *attributeUseCase) DeleteProductAttribute(ctx context.Context, productID, typeID string) error {
	return uc.repo.DeleteProductAttribute(ctx, productID, typeID)
}

func (uc *attributeUseCase) ListFormattedAttributes(ctx context.Context, productID string) ([]model.FormattedAttribute, error) {
	items, err := uc.repo.ListFormatted(ctx, productID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Display = display(&items[i])
	}
	return items, nil
}

func (uc *attributeUseCase) schema(ctx context.Context, typeID string) (typecast.Schema, error) {
	t, err := uc.repo.FindTypeByID(ctx, typeID)
	if err != nil {
		return typecast.Schema{}, err
	}
	if t == nil {
		return typecast.Schema{}, apperr.NotFound("attribute type", typeID)
	}
	return typecast.SchemaOf(t)
}

// projected reports whether kind has a typed column.
func projected(kind model.DataKind) bool {
	return kind == model.KindNumeric || kind == model.KindDate || kind == model.KindBoolean
}

func hasProjection(v typecast.Value) bool {
	if _, ok := v.Numeric(); ok {
		return true
	}
	if _, ok := v.Date(); ok {
		return true
	}
	_, ok := v.Bool()
	return ok
}

func allowedValues(values []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
