package dto

import "github.com/shopspring/decimal"

type CreateVariationInput struct {
	ProductID         string  `validate:"required"`
	SizeOptionID      *string `validate:"omitempty,min=1"`
	SKU               string  `validate:"required,max=64"`
	ColorName         string  `validate:"max=50"`
	ColorCode         string  `validate:"omitempty,colorcode"`
	PriceAdjustment   decimal.Decimal
	StockQuantity     int  `validate:"gte=0"`
	LowStockThreshold *int `validate:"omitempty,gte=0"` // defaults to 5
}

type UpdateVariationInput struct {
	ID                string  `validate:"required"`
	SizeOptionID      *string `validate:"omitempty,min=1"`
	ColorName         string  `validate:"max=50"`
	ColorCode         string  `validate:"omitempty,colorcode"`
	PriceAdjustment   decimal.Decimal
	LowStockThreshold int `validate:"gte=0"`
	IsActive          bool

	// StockQuantity, when set, is applied through the stock ledger.
	StockQuantity *int `validate:"omitempty,gte=0"`
	StockChange
}

// StockChange describes why a stock quantity moved. Empty fields fall back to
// the adjustment kind and the actor on the context.
type StockChange struct {
	ChangeType string `validate:"omitempty,oneof=adjustment purchase sale return damaged lost"`
	Actor      string `validate:"max=100"`
	Notes      string
}

type SetStockInput struct {
	VariationID string `validate:"required"`
	NewQuantity int
	StockChange
}

type AdjustStockInput struct {
	VariationID string `validate:"required"`
	Delta       int
	StockChange
}

// StockEventInput is a batch of adjustments applied at most once per EventID.
type StockEventInput struct {
	EventID string             `validate:"required,max=200"`
	Items   []AdjustStockInput `validate:"dive"`
}
