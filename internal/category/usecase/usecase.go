package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-catalog-service/internal/slug"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	tx     postgres.Transactor
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, tx postgres.Transactor, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var parentID *string
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := uc.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.Wrap(apperr.ErrReferential, "parent category %q does not exist", *input.ParentID)
		}
		parentID = &parent.ID
	}

	catSlug := strings.TrimSpace(input.Slug)
	if catSlug == "" {
		catSlug = slug.Make(input.Name)
		if catSlug == "" {
			return nil, apperr.Wrap(apperr.ErrConstraint, "category name %q yields an empty slug", input.Name)
		}
	}

	exists, err := uc.repo.SlugExists(ctx, catSlug, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrUniqueness, "category slug %q already exists", catSlug)
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID:    parentID,
		Name:        input.Name,
		Slug:        catSlug,
		Description: optional(input.Description),
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}

	uc.logger.Debug("category created", zap.String("id", cat.ID), zap.String("slug", cat.Slug))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFound("category", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	if !filters.IncludeChildren {
		return uc.repo.FindAll(ctx, filters)
	}

	// Tree mode loads every matching category and nests them under their parents.
	all, _, err := uc.repo.FindAll(ctx, &dto.CategoryFilters{IsActive: filters.IsActive})
	if err != nil {
		return nil, 0, err
	}

	rootID := ""
	if filters.ParentID != nil {
		rootID = *filters.ParentID
	}
	tree := buildTree(all, rootID)
	return tree, len(tree), nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	reparent := input.ParentID != nil && *input.ParentID != ""

	var updated *model.Category
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Ancestry must be read after the tree lock so two moves cannot each
		// pass the cycle check against the other's old parent.
		if reparent {
			if err := uc.repo.LockTree(ctx); err != nil {
				return err
			}
		}

		cat, err := uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if cat == nil {
			return apperr.NotFound("category", input.ID)
		}

		var parentID *string
		if reparent {
			if err := uc.checkParent(ctx, cat.ID, *input.ParentID); err != nil {
				return err
			}
			p := *input.ParentID
			parentID = &p
		}

		// slug is fixed at creation
		cat.ParentID = parentID
		cat.Name = input.Name
		cat.Description = optional(input.Description)
		cat.SortOrder = input.SortOrder
		cat.IsActive = input.IsActive
		cat.UpdatedAt = time.Now()

		if err := uc.repo.Update(ctx, cat); err != nil {
			return err
		}
		updated = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// checkParent rejects a parent that is missing or that has id among its
// ancestors.
func (uc *categoryUseCase) checkParent(ctx context.Context, id, parentID string) error {
	if parentID == id {
		return apperr.Wrap(apperr.ErrCycleDetected, "category %q cannot be its own parent", id)
	}

	chain, err := ancestry(ctx, parentID, uc.repo.FindByID)
	if err != nil {
		if isMissing(err) {
			return apperr.Wrap(apperr.ErrReferential, "parent category %q does not exist", parentID)
		}
		return err
	}
	for _, c := range chain {
		if c.ID == id {
			return apperr.Wrap(apperr.ErrCycleDetected, "category %q is an ancestor of %q", id, parentID)
		}
	}
	return nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

func (uc *categoryUseCase) GetCategoryPath(ctx context.Context, id string) (string, error) {
	chain, err := ancestry(ctx, id, uc.repo.FindByID)
	if err != nil {
		return "", err
	}
	return formatPath(chain), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
