package dto

type BrandFilters struct {
	IsActive *bool
	Page     int
	PageSize int
}
