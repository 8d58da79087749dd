package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChangeType string

const (
	ChangeAdjustment ChangeType = "adjustment"
	ChangePurchase   ChangeType = "purchase"
	ChangeSale       ChangeType = "sale"
	ChangeReturn     ChangeType = "return"
	ChangeDamaged    ChangeType = "damaged"
	ChangeLost       ChangeType = "lost"
)

type ProductVariation struct {
	BaseModel
	ProductID         string          `db:"product_id" json:"product_id"`
	SizeOptionID      *string         `db:"size_option_id" json:"size_option_id"`
	SKU               string          `db:"sku" json:"sku"`
	ColorName         *string         `db:"color_name" json:"color_name"`
	ColorCode         *string         `db:"color_code" json:"color_code"`
	PriceAdjustment   decimal.Decimal `db:"price_adjustment" json:"price_adjustment"`
	StockQuantity     int             `db:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int             `db:"low_stock_threshold" json:"low_stock_threshold"`
	IsActive          bool            `db:"is_active" json:"is_active"`
}

// StockLog is an append-only record of one stock quantity change.
type StockLog struct {
	ID               string     `db:"id" json:"id"`
	VariationID      string     `db:"variation_id" json:"variation_id"`
	PreviousQuantity int        `db:"previous_quantity" json:"previous_quantity"`
	NewQuantity      int        `db:"new_quantity" json:"new_quantity"`
	ChangeAmount     int        `db:"change_amount" json:"change_amount"`
	ChangeType       ChangeType `db:"change_type" json:"change_type"`
	Notes            string     `db:"notes" json:"notes"`
	CreatedBy        string     `db:"created_by" json:"created_by"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

type LowStockItem struct {
	VariationID       string  `db:"variation_id" json:"variation_id"`
	ProductID         string  `db:"product_id" json:"product_id"`
	ProductName       string  `db:"product_name" json:"product_name"`
	SKU               string  `db:"sku" json:"sku"`
	SizeName          *string `db:"size_name" json:"size_name"`
	StockQuantity     int     `db:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int     `db:"low_stock_threshold" json:"low_stock_threshold"`
}
