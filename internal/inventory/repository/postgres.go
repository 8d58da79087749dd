package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
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

func (r *PGRepository) CreateVariation(ctx context.Context, v *model.ProductVariation) error {
	query := `
        INSERT INTO product_variations (
            id, product_id, size_option_id, sku, color_name, color_code,
            price_adjustment, stock_quantity, low_stock_threshold, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :product_id, :size_option_id, :sku, :color_name, :color_code,
            :price_adjustment, :stock_quantity, :low_stock_threshold, :is_active,
            :created_at, :updated_at
        )
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, v)
	return postgres.MapError(err)
}

func (r *PGRepository) FindVariationByID(ctx context.Context, id string) (*model.ProductVariation, error) {
	return r.findVariation(ctx, `SELECT * FROM product_variations WHERE id = $1`, id)
}

func (r *PGRepository) FindVariationForUpdate(ctx context.Context, id string) (*model.ProductVariation, error) {
	return r.findVariation(ctx, `SELECT * FROM product_variations WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) findVariation(ctx context.Context, query, id string) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &v, query, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error) {
	var items []model.ProductVariation
	query := `SELECT * FROM product_variations WHERE product_id = $1 ORDER BY sku ASC`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, query, productID); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateVariation writes every column except stock_quantity, which only moves
// through UpdateStock.
func (r *PGRepository) UpdateVariation(ctx context.Context, v *model.ProductVariation) error {
	query := `
        UPDATE product_variations
        SET size_option_id = :size_option_id,
            color_name = :color_name,
            color_code = :color_code,
            price_adjustment = :price_adjustment,
            low_stock_threshold = :low_stock_threshold,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, v)
	return postgres.MapError(err)
}

func (r *PGRepository) DeleteVariation(ctx context.Context, id string) error {
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, "DELETE FROM product_variations WHERE id = $1", id)
	return postgres.MapError(err)
}

func (r *PGRepository) SKUExists(ctx context.Context, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM product_variations WHERE sku = $1`
	args := []interface{}{sku}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := postgres.Executor(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) UpdateStock(ctx context.Context, variationID string, quantity int, updatedAt time.Time) error {
	query := `UPDATE product_variations SET stock_quantity = $1, updated_at = $2 WHERE id = $3`
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, quantity, updatedAt, variationID)
	return postgres.MapError(err)
}

func (r *PGRepository) InsertStockLog(ctx context.Context, entry *model.StockLog) error {
	query := `
        INSERT INTO stock_logs (
            id, variation_id, previous_quantity, new_quantity, change_amount,
            change_type, notes, created_by, created_at
        )
        VALUES (
            :id, :variation_id, :previous_quantity, :new_quantity, :change_amount,
            :change_type, :notes, :created_by, :created_at
        )
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, entry)
	return postgres.MapError(err)
}

func (r *PGRepository) MarkEventProcessed(ctx context.Context, eventID string, at time.Time) (bool, error) {
	query := `INSERT INTO processed_events (event_id, processed_at) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING`
	res, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, eventID, at)
	if err != nil {
		return false, postgres.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) ListStockLogs(ctx context.Context, f *dto.StockLogFilters) ([]model.StockLog, int, error) {
	var items []model.StockLog
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VariationID != "" {
		conditions = append(conditions, "variation_id = :variation_id")
		args["variation_id"] = f.VariationID
	}
	if f.ChangeType != "" {
		conditions = append(conditions, "change_type = :change_type")
		args["change_type"] = f.ChangeType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := postgres.Executor(ctx, r.DB)

	countQuery := "SELECT count(*) FROM stock_logs" + whereClause
	if err := postgres.NamedGet(ctx, conn, &count, countQuery, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_logs" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := postgres.NamedSelect(ctx, conn, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

const lowStockQuery = `
    SELECT v.id                  AS variation_id,
           v.product_id          AS product_id,
           p.name                AS product_name,
           v.sku                 AS sku,
           so.name               AS size_name,
           v.stock_quantity      AS stock_quantity,
           v.low_stock_threshold AS low_stock_threshold
    FROM product_variations v
    JOIN products p ON p.id = v.product_id
    LEFT JOIN size_options so ON so.id = v.size_option_id
    WHERE v.is_active
      AND v.stock_quantity <= v.low_stock_threshold
    ORDER BY v.stock_quantity ASC, v.sku ASC
`

func (r *PGRepository) ListLowStock(ctx context.Context) ([]model.LowStockItem, error) {
	var items []model.LowStockItem
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &items, lowStockQuery); err != nil {
		return nil, err
	}
	return items, nil
}
