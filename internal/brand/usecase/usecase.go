package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-catalog-service/internal/slug"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Statistics are cached under a per-brand generation. Invalidation bumps the
// generation, so a rollup computed before a write lands under a key that is
// no longer read.
const (
	statsKeyPrefix = "catalog:brand-stats:"
	statsGenPrefix = "catalog:brand-stats-gen:"
)

type brandUseCase struct {
	repo     brand.Repository
	cache    brand.Cache
	statsTTL time.Duration
	logger   logger.ZapLogger
}

// NewBrandUseCase builds the brand usecase. cache may be nil, in which case
// statistics are always computed from the store.
func NewBrandUseCase(repo brand.Repository, cache brand.Cache, statsTTL time.Duration, log logger.ZapLogger) brand.UseCase {
	return &brandUseCase{
		repo:     repo,
		cache:    cache,
		statsTTL: statsTTL,
		logger:   log,
	}
}

func (uc *brandUseCase) CreateBrand(ctx context.Context, input *dto.CreateBrandInput) (*model.Brand, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	brandSlug := strings.TrimSpace(input.Slug)
	if brandSlug == "" {
		brandSlug = slug.Make(input.Name)
		if brandSlug == "" {
			return nil, apperr.Wrap(apperr.ErrConstraint, "brand name %q yields an empty slug", input.Name)
		}
	}

	exists, err := uc.repo.SlugExists(ctx, brandSlug, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrUniqueness, "brand slug %q already exists", brandSlug)
	}

	now := time.Now()
	b := &model.Brand{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            input.Name,
		Slug:            brandSlug,
		Description:     optional(input.Description),
		LogoURL:         optional(input.LogoURL),
		IsActive:        true,
		DisplayPriority: input.DisplayPriority,
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	uc.logger.Debug("brand created", zap.String("id", b.ID), zap.String("slug", b.Slug))
	return b, nil
}

func (uc *brandUseCase) GetBrand(ctx context.Context, id string) (*model.Brand, error) {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("brand", id)
	}
	return b, nil
}

func (uc *brandUseCase) ListBrands(ctx context.Context, filters *dto.BrandFilters) ([]model.Brand, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *brandUseCase) UpdateBrand(ctx context.Context, input *dto.UpdateBrandInput) (*model.Brand, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	b, err := uc.GetBrand(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	b.Name = input.Name
	b.Description = optional(input.Description)
	b.LogoURL = optional(input.LogoURL)
	b.DisplayPriority = input.DisplayPriority
	b.IsActive = input.IsActive
	b.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *brandUseCase) DeleteBrand(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete brand %s: %w", id, err)
	}
	uc.InvalidateStatistics(ctx, id)
	return nil
}

func (uc *brandUseCase) GetBrandStatistics(ctx context.Context, brandID string) (*model.BrandStatistics, error) {
	key, cacheable := uc.statsKey(ctx, brandID)

	if cacheable {
		var cached model.BrandStatistics
		hit, err := uc.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("brand statistics cache read failed", zap.String("brand_id", brandID), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	if _, err := uc.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}

	stats, err := uc.repo.Statistics(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.SetJSON(ctx, key, stats, uc.statsTTL); err != nil {
			uc.logger.Warn("brand statistics cache write failed", zap.String("brand_id", brandID), zap.Error(err))
		}
	}
	return stats, nil
}

// statsKey resolves the cache key for the brand's current generation. It
// reports false when there is no cache or the generation cannot be read.
func (uc *brandUseCase) statsKey(ctx context.Context, brandID string) (string, bool) {
	if uc.cache == nil {
		return "", false
	}

	var gen int64
	if _, err := uc.cache.GetJSON(ctx, statsGenPrefix+brandID, &gen); err != nil {
		uc.logger.Warn("brand statistics generation read failed", zap.String("brand_id", brandID), zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s%s:%d", statsKeyPrefix, brandID, gen), true
}

func (uc *brandUseCase) InvalidateStatistics(ctx context.Context, brandIDs ...string) {
	if uc.cache == nil {
		return
	}

	for _, id := range brandIDs {
		if id == "" {
			continue
		}
		if _, err := uc.cache.Incr(ctx, statsGenPrefix+id); err != nil {
			uc.logger.Warn("brand statistics cache invalidation failed", zap.String("brand_id", id), zap.Error(err))
		}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
