package repository

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateCategory(ctx context.Context, c *model.AttributeCategory) error {
	query := `INSERT INTO attribute_categories (id, name, sort_order) VALUES (:id, :name, :sort_order)`
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, c)
	return postgres.MapError(err)
}

func (r *PGRepository) FindCategoryByID(ctx context.Context, id string) (*model.AttributeCategory, error) {
	var c model.AttributeCategory
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &c, `SELECT * FROM attribute_categories WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) ListCategories(ctx context.Context) ([]model.AttributeCategory, error) {
	var items []model.AttributeCategory
	query := `SELECT * FROM attribute_categories ORDER BY sort_order ASC, name ASC`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) CreateType(ctx context.Context, t *model.AttributeType) error {
	query := `
        INSERT INTO attribute_types (
            id, attribute_category_id, name, data_type, unit, validation_regex,
            allowed_values, is_filterable, sort_order
        )
        VALUES (
            :id, :attribute_category_id, :name, :data_type, :unit, :validation_regex,
            :allowed_values, :is_filterable, :sort_order
        )
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, t)
	return postgres.MapError(err)
}

func (r *PGRepository) FindTypeByID(ctx context.Context, id string) (*model.AttributeType, error) {
	return r.findType(ctx, `SELECT * FROM attribute_types WHERE id = $1`, id)
}

func (r *PGRepository) FindTypeForShare(ctx context.Context, id string) (*model.AttributeType, error) {
	return r.findType(ctx, `SELECT * FROM attribute_types WHERE id = $1 FOR SHARE`, id)
}

func (r *PGRepository) FindTypeForUpdate(ctx context.Context, id string) (*model.AttributeType, error) {
	return r.findType(ctx, `SELECT * FROM attribute_types WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) findType(ctx context.Context, query, id string) (*model.AttributeType, error) {
	var t model.AttributeType
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &t, query, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) UpdateType(ctx context.Context, t *model.AttributeType) error {
	query := `
        UPDATE attribute_types
        SET name = :name,
            data_type = :data_type,
            unit = :unit,
            validation_regex = :validation_regex,
            allowed_values = :allowed_values,
            is_filterable = :is_filterable,
            sort_order = :sort_order
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, t)
	return postgres.MapError(err)
}

func (r *PGRepository) ListTypesByCategory(ctx context.Context, categoryID string) ([]model.AttributeType, error) {
	var items []model.AttributeType
	query := `SELECT * FROM attribute_types WHERE attribute_category_id = $1 ORDER BY sort_order ASC, name ASC`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, query, categoryID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) UpsertProductAttribute(ctx context.Context, pa *model.ProductAttribute) error {
	query := `
        INSERT INTO product_attributes (
            id, product_id, attribute_type_id, value,
            numeric_value, date_value, boolean_value, created_at, updated_at
        )
        VALUES (
            :id, :product_id, :attribute_type_id, :value,
            :numeric_value, :date_value, :boolean_value, :created_at, :updated_at
        )
        ON CONFLICT (product_id, attribute_type_id) DO UPDATE
        SET value = EXCLUDED.value,
            numeric_value = EXCLUDED.numeric_value,
            date_value = EXCLUDED.date_value,
            boolean_value = EXCLUDED.boolean_value,
            updated_at = EXCLUDED.updated_at
        RETURNING *
    `
	err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), pa, query, pa)
	return postgres.MapError(err)
}

func (r *PGRepository) DeleteProductAttribute(ctx context.Context, productID, typeID string) error {
	query := `DELETE FROM product_attributes WHERE product_id = $1 AND attribute_type_id = $2`
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, productID, typeID)
	return postgres.MapError(err)
}

func (r *PGRepository) ListAttributesByType(ctx context.Context, typeID string) ([]model.ProductAttribute, error) {
	var items []model.ProductAttribute
	query := `SELECT * FROM product_attributes WHERE attribute_type_id = $1 FOR UPDATE`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, query, typeID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) UpdateProjections(ctx context.Context, pa *model.ProductAttribute) error {
	query := `
        UPDATE product_attributes
        SET numeric_value = :numeric_value,
            date_value = :date_value,
            boolean_value = :boolean_value,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, pa)
	return postgres.MapError(err)
}

const formattedQuery = `
    SELECT ac.name         AS category_name,
           at.name         AS attribute_name,
           at.data_type    AS data_type,
           pa.value        AS value,
           at.unit         AS unit,
           pa.boolean_value AS boolean_value
    FROM product_attributes pa
    JOIN attribute_types at ON at.id = pa.attribute_type_id
    JOIN attribute_categories ac ON ac.id = at.attribute_category_id
    WHERE pa.product_id = $1
    ORDER BY ac.sort_order ASC, ac.name ASC, at.sort_order ASC, at.name ASC
`

func (r *PGRepository) ListFormatted(ctx context.Context, productID string) ([]model.FormattedAttribute, error) {
	var items []model.FormattedAttribute
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, formattedQuery, productID); err != nil {
		return nil, err
	}
	return items, nil
}
