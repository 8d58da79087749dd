package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
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

func (r *PGRepository) Create(ctx context.Context, b *model.Brand) error {
	query := `
        INSERT INTO brands (id, name, slug, description, logo_url, is_active, display_priority, created_at, updated_at)
        VALUES (:id, :name, :slug, :description, :logo_url, :is_active, :display_priority, :created_at, :updated_at)
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, b)
	return postgres.MapError(err)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Brand, error) {
	var b model.Brand
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &b, `SELECT * FROM brands WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.BrandFilters) ([]model.Brand, int, error) {
	var brands []model.Brand
	var count int

	conditions := []string{}
	args := map[string]interface{}{}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := postgres.Executor(ctx, r.DB)
	if err := postgres.NamedGet(ctx, conn, &count, "SELECT count(*) FROM brands"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM brands" + whereClause + " ORDER BY display_priority DESC, name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := postgres.NamedSelect(ctx, conn, &brands, query, args); err != nil {
		return nil, 0, err
	}
	return brands, count, nil
}

func (r *PGRepository) Update(ctx context.Context, b *model.Brand) error {
	query := `
        UPDATE brands
        SET name = :name,
            description = :description,
            logo_url = :logo_url,
            is_active = :is_active,
            display_priority = :display_priority,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, b)
	return postgres.MapError(err)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, "DELETE FROM brands WHERE id = $1", id)
	return postgres.MapError(err)
}

func (r *PGRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM brands WHERE slug = $1`
	args := []interface{}{slug}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := postgres.Executor(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) Statistics(ctx context.Context, brandID string) (*model.BrandStatistics, error) {
	stats := model.BrandStatistics{BrandID: brandID}
	query := `
        SELECT count(*)                                AS total_products,
               count(*) FILTER (WHERE is_active)       AS active_products,
               count(DISTINCT category_id)             AS distinct_categories,
               round(avg(base_price), 2)               AS average_base_price
        FROM products
        WHERE brand_id = $1
    `
	if err := postgres.Executor(ctx, r.DB).GetContext(ctx, &stats, query, brandID); err != nil {
		return nil, err
	}
	return &stats, nil
}
