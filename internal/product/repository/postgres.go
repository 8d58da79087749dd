package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, brand_id, category_id, sku, name, slug, description,
            base_price, sale_price, stock_status, rating, is_active, is_featured,
            created_at, updated_at
        )
        VALUES (
            :id, :brand_id, :category_id, :sku, :name, :slug, :description,
            :base_price, :sale_price, :stock_status, :rating, :is_active, :is_featured,
            :created_at, :updated_at
        )
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, p)
	return postgres.MapError(err)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE slug = $1 LIMIT 1`, slug)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	var product model.Product
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &product, query, arg)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.BrandID != "" {
		conditions = append(conditions, "brand_id = :brand_id")
		args["brand_id"] = f.BrandID
	}
	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.IsFeatured != nil {
		conditions = append(conditions, "is_featured = :is_featured")
		args["is_featured"] = *f.IsFeatured
	}
	if f.StockStatus != "" {
		conditions = append(conditions, "stock_status = :stock_status")
		args["stock_status"] = f.StockStatus
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := postgres.Executor(ctx, r.DB)

	countQuery := "SELECT count(*) FROM products" + whereClause
	if err := postgres.NamedGet(ctx, conn, &count, countQuery, args); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy(f))
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := postgres.NamedSelect(ctx, conn, &products, query, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// orderBy only emits whitelisted columns.
func orderBy(f *dto.ProductFilters) string {
	if f.SortBy == "" {
		return "created_at DESC"
	}

	column := "created_at"
	switch f.SortBy {
	case "name":
		column = "name"
	case "price":
		column = "base_price"
	case "rating":
		column = "rating"
	}
	if strings.ToLower(f.SortOrder) == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET brand_id = :brand_id,
            category_id = :category_id,
            sku = :sku,
            name = :name,
            description = :description,
            base_price = :base_price,
            sale_price = :sale_price,
            stock_status = :stock_status,
            rating = :rating,
            is_active = :is_active,
            is_featured = :is_featured,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, p)
	return postgres.MapError(err)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return postgres.MapError(err)
}

func (r *PGRepository) SKUExists(ctx context.Context, sku, excludeID string) (bool, error) {
	return r.exists(ctx, "sku", sku, excludeID)
}

func (r *PGRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.exists(ctx, "slug", slug, excludeID)
}

func (r *PGRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	var count int
	query := fmt.Sprintf(`SELECT count(*) FROM products WHERE %s = $1`, column)
	args := []interface{}{value}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := postgres.Executor(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}
