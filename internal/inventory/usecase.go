package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateVariation(ctx context.Context, input *dto.CreateVariationInput) (*model.ProductVariation, error)
	GetVariation(ctx context.Context, id string) (*model.ProductVariation, error)
	ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error)
	UpdateVariation(ctx context.Context, input *dto.UpdateVariationInput) (*model.ProductVariation, error)
	DeleteVariation(ctx context.Context, id string) error

	// SetStock and AdjustStock return the ledger entry they appended, or nil
	// when the quantity did not change.
	SetStock(ctx context.Context, input *dto.SetStockInput) (*model.StockLog, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockLog, error)
	// ApplyStockEvent applies every item of the event in one transaction and
	// returns false without changing stock when the event was seen before.
	// Items naming a missing variation or driving stock negative are skipped.
	ApplyStockEvent(ctx context.Context, input *dto.StockEventInput) (bool, error)
	ListStockLogs(ctx context.Context, filters *dto.StockLogFilters) ([]model.StockLog, int, error)
	ListLowStock(ctx context.Context) ([]model.LowStockItem, error)
}

type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
