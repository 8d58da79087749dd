package model

import "github.com/shopspring/decimal"

type Brand struct {
	BaseModel
	Name            string  `db:"name" json:"name"`
	Slug            string  `db:"slug" json:"slug"`
	Description     *string `db:"description" json:"description"`
	LogoURL         *string `db:"logo_url" json:"logo_url"`
	IsActive        bool    `db:"is_active" json:"is_active"`
	DisplayPriority int     `db:"display_priority" json:"display_priority"`
}

// BrandStatistics is an on-demand rollup over a brand's products.
type BrandStatistics struct {
	BrandID            string              `db:"brand_id" json:"brand_id"`
	TotalProducts      int                 `db:"total_products" json:"total_products"`
	ActiveProducts     int                 `db:"active_products" json:"active_products"`
	DistinctCategories int                 `db:"distinct_categories" json:"distinct_categories"`
	AverageBasePrice   decimal.NullDecimal `db:"average_base_price" json:"average_base_price"`
}
