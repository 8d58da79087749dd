package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (uc *inventoryUseCase) SetStock(ctx context.Context, input *dto.SetStockInput) (*model.StockLog, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var entry *model.StockLog
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := uc.lockVariation(ctx, input.VariationID)
		if err != nil {
			return err
		}
		entry, err = uc.applyStock(ctx, v, input.NewQuantity, input.StockChange)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockLog, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var entry *model.StockLog
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := uc.lockVariation(ctx, input.VariationID)
		if err != nil {
			return err
		}
		entry, err = uc.applyStock(ctx, v, v.StockQuantity+input.Delta, input.StockChange)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *inventoryUseCase) ApplyStockEvent(ctx context.Context, input *dto.StockEventInput) (bool, error) {
	if err := validation.Struct(input); err != nil {
		return false, err
	}

	applied := false
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		fresh, err := uc.repo.MarkEventProcessed(ctx, input.EventID, time.Now())
		if err != nil {
			return err
		}
		if !fresh {
			return nil
		}
		applied = true

		for i := range input.Items {
			item := &input.Items[i]
			v, err := uc.lockVariation(ctx, item.VariationID)
			if err == nil {
				_, err = uc.applyStock(ctx, v, v.StockQuantity+item.Delta, item.StockChange)
			}
			if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConstraint) {
				uc.logger.Warn("stock event item skipped",
					zap.String("event_id", input.EventID),
					zap.String("variation_id", item.VariationID),
					zap.Error(err),
				)
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if !applied {
		uc.logger.Info("stock event already applied", zap.String("event_id", input.EventID))
	}
	return applied, nil
}

func (uc *inventoryUseCase) lockVariation(ctx context.Context, id string) (*model.ProductVariation, error) {
	v, err := uc.repo.FindVariationForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("variation", id)
	}
	return v, nil
}

// applyStock moves v to quantity and appends the matching ledger entry. It
// must run inside the transaction holding v's row lock. Returns nil when the
// quantity is unchanged.
func (uc *inventoryUseCase) applyStock(ctx context.Context, v *model.ProductVariation, quantity int, change dto.StockChange) (*model.StockLog, error) {
	if quantity < 0 {
		return nil, apperr.Wrap(apperr.ErrConstraint,
			"stock for variation %q would drop to %d", v.ID, quantity)
	}
	if quantity == v.StockQuantity {
		return nil, nil
	}

	kind := model.ChangeAdjustment
	if change.ChangeType != "" {
		kind = model.ChangeType(change.ChangeType)
	}

	now := time.Now()
	entry := &model.StockLog{
		ID:               uuid.New().String(),
		VariationID:      v.ID,
		PreviousQuantity: v.StockQuantity,
		NewQuantity:      quantity,
		ChangeAmount:     quantity - v.StockQuantity,
		ChangeType:       kind,
		Notes:            change.Notes,
		CreatedBy:        auth.ActorOrSystem(ctx, change.Actor),
		CreatedAt:        now,
	}

	if err := uc.repo.UpdateStock(ctx, v.ID, quantity, now); err != nil {
		return nil, err
	}
	if err := uc.repo.InsertStockLog(ctx, entry); err != nil {
		return nil, err
	}

	v.StockQuantity = quantity
	v.UpdatedAt = now

	uc.logger.Debug("stock changed",
		zap.String("variation_id", v.ID),
		zap.Int("previous", entry.PreviousQuantity),
		zap.Int("new", entry.NewQuantity),
		zap.String("kind", string(kind)),
		zap.String("actor", entry.CreatedBy),
	)
	return entry, nil
}
