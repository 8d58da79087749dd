package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLowStockThreshold = 5

type inventoryUseCase struct {
	repo     inventory.Repository
	products inventory.ProductLookup
	tx       postgres.Transactor
	logger   logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, products inventory.ProductLookup, tx postgres.Transactor, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		products: products,
		tx:       tx,
		logger:   log,
	}
}

// CreateVariation stores the opening stock as given; the ledger records
// changes from there on.
func (uc *inventoryUseCase) CreateVariation(ctx context.Context, input *dto.CreateVariationInput) (*model.ProductVariation, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.Wrap(apperr.ErrReferential, "product %q does not exist", input.ProductID)
	}

	sku := strings.TrimSpace(input.SKU)
	exists, err := uc.repo.SKUExists(ctx, sku, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrUniqueness, "variation sku %q already exists", sku)
	}

	threshold := defaultLowStockThreshold
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	}

	now := time.Now()
	v := &model.ProductVariation{
		BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ProductID:         input.ProductID,
		SizeOptionID:      input.SizeOptionID,
		SKU:               sku,
		ColorName:         optional(input.ColorName),
		ColorCode:         optional(input.ColorCode),
		PriceAdjustment:   input.PriceAdjustment,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: threshold,
		IsActive:          true,
	}

	if err := uc.repo.CreateVariation(ctx, v); err != nil {
		return nil, err
	}

	uc.logger.Debug("variation created", zap.String("id", v.ID), zap.String("sku", v.SKU), zap.Int("stock", v.StockQuantity))
	return v, nil
}

func (uc *inventoryUseCase) GetVariation(ctx context.Context, id string) (*model.ProductVariation, error) {
	v, err := uc.repo.FindVariationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("variation", id)
	}
	return v, nil
}

func (uc *inventoryUseCase) ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error) {
	return uc.repo.ListVariations(ctx, productID)
}

func (uc *inventoryUseCase) UpdateVariation(ctx context.Context, input *dto.UpdateVariationInput) (*model.ProductVariation, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var updated *model.ProductVariation
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := uc.repo.FindVariationForUpdate(ctx, input.ID)
		if err != nil {
			return err
		}
		if v == nil {
			return apperr.NotFound("variation", input.ID)
		}

		v.SizeOptionID = input.SizeOptionID
		v.ColorName = optional(input.ColorName)
		v.ColorCode = optional(input.ColorCode)
		v.PriceAdjustment = input.PriceAdjustment
		v.LowStockThreshold = input.LowStockThreshold
		v.IsActive = input.IsActive
		v.UpdatedAt = time.Now()

		if err := uc.repo.UpdateVariation(ctx, v); err != nil {
			return err
		}

		if input.StockQuantity != nil {
			if _, err := uc.applyStock(ctx, v, *input.StockQuantity, input.StockChange); err != nil {
				return err
			}
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteVariation leaves the variation's ledger entries in place.
func (uc *inventoryUseCase) DeleteVariation(ctx context.Context, id string) error {
	if _, err := uc.GetVariation(ctx, id); err != nil {
		return err
	}
	return uc.repo.DeleteVariation(ctx, id)
}

func (uc *inventoryUseCase) ListStockLogs(ctx context.Context, filters *dto.StockLogFilters) ([]model.StockLog, int, error) {
	return uc.repo.ListStockLogs(ctx, filters)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context) ([]model.LowStockItem, error) {
	return uc.repo.ListLowStock(ctx)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
