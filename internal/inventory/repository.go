package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	// Variations
	CreateVariation(ctx context.Context, v *model.ProductVariation) error
	FindVariationByID(ctx context.Context, id string) (*model.ProductVariation, error)
	// FindVariationForUpdate locks the row until the surrounding transaction ends.
	FindVariationForUpdate(ctx context.Context, id string) (*model.ProductVariation, error)
	ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error)
	UpdateVariation(ctx context.Context, v *model.ProductVariation) error
	DeleteVariation(ctx context.Context, id string) error
	SKUExists(ctx context.Context, sku, excludeID string) (bool, error)

	// Stock ledger
	UpdateStock(ctx context.Context, variationID string, quantity int, updatedAt time.Time) error
	InsertStockLog(ctx context.Context, entry *model.StockLog) error
	ListStockLogs(ctx context.Context, filters *dto.StockLogFilters) ([]model.StockLog, int, error)
	// MarkEventProcessed records eventID and reports false when it was
	// already recorded.
	MarkEventProcessed(ctx context.Context, eventID string, at time.Time) (bool, error)

	ListLowStock(ctx context.Context) ([]model.LowStockItem, error)
}
