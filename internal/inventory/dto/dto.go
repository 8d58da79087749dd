package dto

type StockLogFilters struct {
	VariationID string
	ChangeType  string
	Page        int
	PageSize    int
}
