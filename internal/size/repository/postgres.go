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

func (r *PGRepository) CreateCategory(ctx context.Context, c *model.SizeCategory) error {
	query := `
        INSERT INTO size_categories (id, name, description, sort_order)
        VALUES (:id, :name, :description, :sort_order)
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, c)
	return postgres.MapError(err)
}

func (r *PGRepository) FindCategoryByID(ctx context.Context, id string) (*model.SizeCategory, error) {
	var c model.SizeCategory
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &c, `SELECT * FROM size_categories WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) ListCategories(ctx context.Context) ([]model.SizeCategory, error) {
	var items []model.SizeCategory
	query := `SELECT * FROM size_categories ORDER BY sort_order ASC, name ASC`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) CreateOption(ctx context.Context, o *model.SizeOption) error {
	query := `
        INSERT INTO size_options (id, size_category_id, code, name, sort_order, is_active)
        VALUES (:id, :size_category_id, :code, :name, :sort_order, :is_active)
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, o)
	return postgres.MapError(err)
}

func (r *PGRepository) FindOptionByID(ctx context.Context, id string) (*model.SizeOption, error) {
	var o model.SizeOption
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &o, `SELECT * FROM size_options WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) ListOptions(ctx context.Context, categoryID string) ([]model.SizeOption, error) {
	var items []model.SizeOption
	query := `SELECT * FROM size_options WHERE size_category_id = $1 ORDER BY sort_order ASC, code ASC`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, query, categoryID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) UpdateOption(ctx context.Context, o *model.SizeOption) error {
	query := `
        UPDATE size_options
        SET code = :code,
            name = :name,
            sort_order = :sort_order,
            is_active = :is_active
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, o)
	return postgres.MapError(err)
}

func (r *PGRepository) CodeExists(ctx context.Context, categoryID, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM size_options WHERE size_category_id = $1 AND code = $2`
	args := []interface{}{categoryID, code}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	if err := postgres.Executor(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

const availableSizesQuery = `
    SELECT so.id                              AS size_option_id,
           so.code                            AS code,
           so.name                            AS name,
           COALESCE(SUM(v.stock_quantity), 0) AS total_stock,
           COALESCE(SUM(v.stock_quantity), 0) > 0 AS available
    FROM product_variations v
    JOIN size_options so ON so.id = v.size_option_id
    WHERE v.product_id = $1
      AND v.is_active
    GROUP BY so.id, so.code, so.name, so.sort_order
    ORDER BY so.sort_order ASC, so.code ASC
`

func (r *PGRepository) ListAvailableSizes(ctx context.Context, productID string) ([]model.AvailableSize, error) {
	var items []model.AvailableSize
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, availableSizesQuery, productID); err != nil {
		return nil, err
	}
	return items, nil
}
