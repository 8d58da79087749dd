package dto

type ProductFilters struct {
	BrandID     string
	CategoryID  string
	IsActive    *bool
	IsFeatured  *bool
	StockStatus string
	SearchQuery string // name or sku
	SortBy      string // name, price, rating, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
