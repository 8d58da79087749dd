package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockStatusInStock      StockStatus = "in_stock"
	StockStatusOutOfStock   StockStatus = "out_of_stock"
	StockStatusBackorder    StockStatus = "backorder"
	StockStatusDiscontinued StockStatus = "discontinued"
	StockStatusComingSoon   StockStatus = "coming_soon"
)

type Product struct {
	BaseModel
	BrandID     string              `db:"brand_id" json:"brand_id"`
	CategoryID  string              `db:"category_id" json:"category_id"`
	SKU         string              `db:"sku" json:"sku"`
	Name        string              `db:"name" json:"name"`
	Slug        string              `db:"slug" json:"slug"`
	Description *string             `db:"description" json:"description"`
	BasePrice   decimal.Decimal     `db:"base_price" json:"base_price"`
	SalePrice   decimal.NullDecimal `db:"sale_price" json:"sale_price"`
	StockStatus StockStatus         `db:"stock_status" json:"stock_status"`
	Rating      *float64            `db:"rating" json:"rating"`
	IsActive    bool                `db:"is_active" json:"is_active"`
	IsFeatured  bool                `db:"is_featured" json:"is_featured"`
	Images      []ProductImage      `db:"-" json:"images,omitempty"`
	Variations  []ProductVariation  `db:"-" json:"variations,omitempty"`
}

type ProductImage struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	URL       string    `db:"url" json:"url"`
	AltText   *string   `db:"alt_text" json:"alt_text"`
	Position  int       `db:"position" json:"position"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
