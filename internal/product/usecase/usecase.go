package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/slug"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo       product.Repository
	tx         postgres.Transactor
	brands     product.BrandLookup
	categories product.CategoryLookup
	stats      brand.StatisticsInvalidator
	search     product.SearchIndex
	index      string
	logger     logger.ZapLogger
}

type Option func(*productUseCase)

// WithSearchIndex mirrors product writes into the named search index and
// serves text queries from it.
func WithSearchIndex(idx product.SearchIndex, index string) Option {
	return func(uc *productUseCase) {
		uc.search = idx
		uc.index = index
	}
}

// WithStatisticsInvalidator drops cached brand statistics after product writes.
func WithStatisticsInvalidator(inv brand.StatisticsInvalidator) Option {
	return func(uc *productUseCase) {
		uc.stats = inv
	}
}

func NewProductUseCase(
	repo product.Repository,
	tx postgres.Transactor,
	brands product.BrandLookup,
	categories product.CategoryLookup,
	log logger.ZapLogger,
	opts ...Option,
) product.UseCase {
	uc := &productUseCase{
		repo:       repo,
		tx:         tx,
		brands:     brands,
		categories: categories,
		logger:     log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := checkPrices(input.BasePrice, input.SalePrice); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, input.BrandID, input.CategoryID); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	exists, err := uc.repo.SKUExists(ctx, sku, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrUniqueness, "product sku %q already exists", sku)
	}

	productSlug, err := uc.productSlug(ctx, input.Slug, input.Name, sku)
	if err != nil {
		return nil, err
	}

	stockStatus := model.StockStatusInStock
	if input.StockStatus != "" {
		stockStatus = model.StockStatus(input.StockStatus)
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		BrandID:     input.BrandID,
		CategoryID:  input.CategoryID,
		SKU:         sku,
		Name:        input.Name,
		Slug:        productSlug,
		Description: optional(input.Description),
		BasePrice:   input.BasePrice,
		SalePrice:   nullDecimal(input.SalePrice),
		StockStatus: stockStatus,
		Rating:      input.Rating,
		IsActive:    true,
		IsFeatured:  input.IsFeatured,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateStatistics(ctx, p.BrandID)
	go uc.syncToSearch(context.Background(), p)

	return p, nil
}

// productSlug keeps an explicit slug as given. A derived slug that is already
// taken gets the sku appended once; a clash after that is left to the store.
func (uc *productUseCase) productSlug(ctx context.Context, explicit, name, sku string) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		exists, err := uc.repo.SlugExists(ctx, s, "")
		if err != nil {
			return "", err
		}
		if exists {
			return "", apperr.Wrap(apperr.ErrUniqueness, "product slug %q already exists", s)
		}
		return s, nil
	}

	s := slug.Make(name)
	if s == "" {
		return "", apperr.Wrap(apperr.ErrConstraint, "product name %q yields an empty slug", name)
	}

	exists, err := uc.repo.SlugExists(ctx, s, "")
	if err != nil {
		return "", err
	}
	if exists {
		s = slug.WithSKU(s, sku)
	}
	return s, nil
}

func (uc *productUseCase) checkReferences(ctx context.Context, brandID, categoryID string) error {
	b, err := uc.brands.FindByID(ctx, brandID)
	if err != nil {
		return err
	}
	if b == nil {
		return apperr.Wrap(apperr.ErrReferential, "brand %q does not exist", brandID)
	}

	c, err := uc.categories.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.Wrap(apperr.ErrReferential, "category %q does not exist", categoryID)
	}
	return nil
}

func checkPrices(base decimal.Decimal, sale *decimal.Decimal) error {
	if base.IsNegative() {
		return apperr.Wrap(apperr.ErrConstraint, "base price %s is negative", base)
	}
	if sale != nil && sale.IsNegative() {
		return apperr.Wrap(apperr.ErrConstraint, "sale price %s is negative", sale)
	}
	return nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", id)
	}

	p.Images, err = uc.repo.ListImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) GetProductBySlug(ctx context.Context, productSlug string) (*model.Product, error) {
	p, err := uc.repo.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", productSlug)
	}

	p.Images, err = uc.repo.ListImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.SearchQuery != "" && uc.search != nil {
		products, total, err := uc.searchProducts(ctx, filters)
		if err == nil {
			return products, total, nil
		}
		uc.logger.Error("product search failed, falling back to store", zap.Error(err))
	}

	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) searchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  filters.SearchQuery,
				"type":   "phrase_prefix",
				"fields": []string{"name^3", "sku", "description"},
			},
		},
	}
	var filter []map[string]interface{}
	if filters.BrandID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"brand_id": filters.BrandID}})
	}
	if filters.CategoryID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}
	if filters.IsActive != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must, "filter": filter},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.search.Search(ctx, uc.index, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := checkPrices(input.BasePrice, input.SalePrice); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", input.ID)
	}

	if p.BrandID != input.BrandID || p.CategoryID != input.CategoryID {
		if err := uc.checkReferences(ctx, input.BrandID, input.CategoryID); err != nil {
			return nil, err
		}
	}

	sku := strings.TrimSpace(input.SKU)
	if p.SKU != sku {
		exists, err := uc.repo.SKUExists(ctx, sku, p.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.Wrap(apperr.ErrUniqueness, "product sku %q already exists", sku)
		}
	}

	previousBrand := p.BrandID

	// slug is fixed at creation
	p.BrandID = input.BrandID
	p.CategoryID = input.CategoryID
	p.SKU = sku
	p.Name = input.Name
	p.Description = optional(input.Description)
	p.BasePrice = input.BasePrice
	p.SalePrice = nullDecimal(input.SalePrice)
	p.StockStatus = model.StockStatus(input.StockStatus)
	p.Rating = input.Rating
	p.IsActive = input.IsActive
	p.IsFeatured = input.IsFeatured
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateStatistics(ctx, previousBrand, p.BrandID)
	go uc.syncToSearch(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("product", id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateStatistics(ctx, p.BrandID)
	if uc.search != nil {
		go func() {
			if err := uc.search.Delete(context.Background(), uc.index, id); err != nil {
				uc.logger.Error("failed to remove product from search index", zap.String("id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) syncToSearch(ctx context.Context, p *model.Product) {
	if uc.search == nil {
		return
	}
	if err := uc.search.Index(ctx, uc.index, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) invalidateStatistics(ctx context.Context, brandIDs ...string) {
	if uc.stats == nil {
		return
	}
	uc.stats.InvalidateStatistics(ctx, brandIDs...)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
