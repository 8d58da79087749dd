package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Image writes lock the owning product row first so that writers on the same
// product queue up and at most one image ends up primary.

func (uc *productUseCase) AddImage(ctx context.Context, input *dto.CreateImageInput) (*model.ProductImage, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	img := &model.ProductImage{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		URL:       input.URL,
		AltText:   optional(input.AltText),
		Position:  input.Position,
		IsPrimary: input.IsPrimary,
		CreatedAt: time.Now(),
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.lockProduct(ctx, img.ProductID); err != nil {
			return err
		}
		if img.IsPrimary {
			if err := uc.repo.ClearPrimary(ctx, img.ProductID, ""); err != nil {
				return err
			}
		}
		return uc.repo.CreateImage(ctx, img)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("product image added",
		zap.String("product_id", img.ProductID),
		zap.String("image_id", img.ID),
		zap.Bool("primary", img.IsPrimary),
	)
	return img, nil
}

func (uc *productUseCase) UpdateImage(ctx context.Context, input *dto.UpdateImageInput) (*model.ProductImage, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var updated *model.ProductImage
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		img, err := uc.lockedImage(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.URL != nil {
			img.URL = *input.URL
		}
		if input.AltText != nil {
			img.AltText = optional(*input.AltText)
		}
		if input.Position != nil {
			img.Position = *input.Position
		}
		if input.IsPrimary != nil {
			img.IsPrimary = *input.IsPrimary
		}

		if img.IsPrimary {
			if err := uc.repo.ClearPrimary(ctx, img.ProductID, img.ID); err != nil {
				return err
			}
		}
		if err := uc.repo.UpdateImage(ctx, img); err != nil {
			return err
		}
		updated = img
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *productUseCase) SetPrimaryImage(ctx context.Context, imageID string) (*model.ProductImage, error) {
	primary := true
	return uc.UpdateImage(ctx, &dto.UpdateImageInput{ID: imageID, IsPrimary: &primary})
}

func (uc *productUseCase) ListImages(ctx context.Context, productID string) ([]model.ProductImage, error) {
	return uc.repo.ListImages(ctx, productID)
}

func (uc *productUseCase) DeleteImage(ctx context.Context, id string) error {
	img, err := uc.repo.FindImageByID(ctx, id)
	if err != nil {
		return err
	}
	if img == nil {
		return apperr.NotFound("product image", id)
	}
	return uc.repo.DeleteImage(ctx, id)
}

// lockedImage locks the image's product and returns the image as read after
// the lock was granted. Fields read before the lock may already be stale.
func (uc *productUseCase) lockedImage(ctx context.Context, id string) (*model.ProductImage, error) {
	img, err := uc.repo.FindImageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, apperr.NotFound("product image", id)
	}
	if err := uc.lockProduct(ctx, img.ProductID); err != nil {
		return nil, err
	}

	img, err = uc.repo.FindImageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, apperr.NotFound("product image", id)
	}
	return img, nil
}

func (uc *productUseCase) lockProduct(ctx context.Context, productID string) error {
	p, err := uc.repo.LockByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("product", productID)
	}
	return nil
}
