package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	BrandID     string `validate:"required"`
	CategoryID  string `validate:"required"`
	SKU         string `validate:"required,max=64"`
	Name        string `validate:"required,max=255"`
	Slug        string `validate:"max=320"`
	Description string
	BasePrice   decimal.Decimal
	SalePrice   *decimal.Decimal
	StockStatus string   `validate:"omitempty,oneof=in_stock out_of_stock backorder discontinued coming_soon"`
	Rating      *float64 `validate:"omitempty,gte=0,lte=5"`
	IsFeatured  bool
}

type UpdateProductInput struct {
	ID          string `validate:"required"`
	BrandID     string `validate:"required"`
	CategoryID  string `validate:"required"`
	SKU         string `validate:"required,max=64"`
	Name        string `validate:"required,max=255"`
	Description string
	BasePrice   decimal.Decimal
	SalePrice   *decimal.Decimal
	StockStatus string   `validate:"required,oneof=in_stock out_of_stock backorder discontinued coming_soon"`
	Rating      *float64 `validate:"omitempty,gte=0,lte=5"`
	IsActive    bool
	IsFeatured  bool
}

type CreateImageInput struct {
	ProductID string `validate:"required"`
	URL       string `validate:"required,url"`
	AltText   string `validate:"max=255"`
	Position  int    `validate:"gte=0"`
	IsPrimary bool
}

// UpdateImageInput changes only the fields that are set.
type UpdateImageInput struct {
	ID        string  `validate:"required"`
	URL       *string `validate:"omitempty,url"`
	AltText   *string `validate:"omitempty,max=255"`
	Position  *int    `validate:"omitempty,gte=0"`
	IsPrimary *bool
}
