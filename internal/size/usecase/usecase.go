package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-catalog-service/internal/size"
	"github.com/fekuna/omnipos-catalog-service/internal/size/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sizeUseCase struct {
	repo   size.Repository
	logger logger.ZapLogger
}

func NewSizeUseCase(repo size.Repository, log logger.ZapLogger) size.UseCase {
	return &sizeUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *sizeUseCase) CreateSizeCategory(ctx context.Context, input *dto.CreateSizeCategoryInput) (*model.SizeCategory, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c := &model.SizeCategory{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		SortOrder: input.SortOrder,
	}
	if input.Description != "" {
		c.Description = &input.Description
	}

	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *sizeUseCase) ListSizeCategories(ctx context.Context) ([]model.SizeCategory, error) {
	return uc.repo.ListCategories(ctx)
}

func (uc *sizeUseCase) CreateSizeOption(ctx context.Context, input *dto.CreateSizeOptionInput) (*model.SizeOption, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c, err := uc.repo.FindCategoryByID(ctx, input.SizeCategoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Wrap(apperr.ErrReferential, "size category %q does not exist", input.SizeCategoryID)
	}

	code := strings.TrimSpace(input.Code)
	if err := uc.checkCode(ctx, c.ID, code, ""); err != nil {
		return nil, err
	}

	o := &model.SizeOption{
		ID:             uuid.New().String(),
		SizeCategoryID: c.ID,
		Code:           code,
		Name:           input.Name,
		SortOrder:      input.SortOrder,
		IsActive:       true,
	}
	if err := uc.repo.CreateOption(ctx, o); err != nil {
		return nil, err
	}

	uc.logger.Debug("size option created", zap.String("category", c.Name), zap.String("code", o.Code))
	return o, nil
}

func (uc *sizeUseCase) ListSizeOptions(ctx context.Context, categoryID string) ([]model.SizeOption, error) {
	return uc.repo.ListOptions(ctx, categoryID)
}

func (uc *sizeUseCase) UpdateSizeOption(ctx context.Context, input *dto.UpdateSizeOptionInput) (*model.SizeOption, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	o, err := uc.repo.FindOptionByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("size option", input.ID)
	}

	code := strings.TrimSpace(input.Code)
	if code != o.Code {
		if err := uc.checkCode(ctx, o.SizeCategoryID, code, o.ID); err != nil {
			return nil, err
		}
	}

	o.Code = code
	o.Name = input.Name
	o.SortOrder = input.SortOrder
	o.IsActive = input.IsActive

	if err := uc.repo.UpdateOption(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *sizeUseCase) checkCode(ctx context.Context, categoryID, code, excludeID string) error {
	exists, err := uc.repo.CodeExists(ctx, categoryID, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Wrap(apperr.ErrUniqueness, "size code %q already exists in category %q", code, categoryID)
	}
	return nil
}

func (uc *sizeUseCase) ListAvailableSizes(ctx context.Context, productID string) ([]model.AvailableSize, error) {
	return uc.repo.ListAvailableSizes(ctx, productID)
}
