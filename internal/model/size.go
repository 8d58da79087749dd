package model

type SizeCategory struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	SortOrder   int     `db:"sort_order" json:"sort_order"`
}

type SizeOption struct {
	ID             string `db:"id" json:"id"`
	SizeCategoryID string `db:"size_category_id" json:"size_category_id"`
	Code           string `db:"code" json:"code"`
	Name           string `db:"name" json:"name"`
	SortOrder      int    `db:"sort_order" json:"sort_order"`
	IsActive       bool   `db:"is_active" json:"is_active"`
}

// AvailableSize aggregates a product's active variations per size option.
type AvailableSize struct {
	SizeOptionID string `db:"size_option_id" json:"size_option_id"`
	Code         string `db:"code" json:"code"`
	Name         string `db:"name" json:"name"`
	TotalStock   int    `db:"total_stock" json:"total_stock"`
	Available    bool   `db:"available" json:"available"`
}
