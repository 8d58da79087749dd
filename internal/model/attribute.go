package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type DataKind string

const (
	KindText        DataKind = "text"
	KindNumeric     DataKind = "numeric"
	KindBoolean     DataKind = "boolean"
	KindDate        DataKind = "date"
	KindSelect      DataKind = "select"
	KindMultiselect DataKind = "multiselect"
)

func (k DataKind) Valid() bool {
	switch k {
	case KindText, KindNumeric, KindBoolean, KindDate, KindSelect, KindMultiselect:
		return true
	}
	return false
}

type AttributeCategory struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

type AttributeType struct {
	ID                  string         `db:"id" json:"id"`
	AttributeCategoryID string         `db:"attribute_category_id" json:"attribute_category_id"`
	Name                string         `db:"name" json:"name"`
	DataType            DataKind       `db:"data_type" json:"data_type"`
	Unit                *string        `db:"unit" json:"unit"`
	ValidationRegex     *string        `db:"validation_regex" json:"validation_regex"`
	AllowedValues       pq.StringArray `db:"allowed_values" json:"allowed_values"`
	IsFilterable        bool           `db:"is_filterable" json:"is_filterable"`
	SortOrder           int            `db:"sort_order" json:"sort_order"`
}

// ProductAttribute keeps the raw value plus the projection matching the
// attribute type's data kind. Projections are null when the raw value does
// not parse.
type ProductAttribute struct {
	BaseModel
	ProductID       string              `db:"product_id" json:"product_id"`
	AttributeTypeID string              `db:"attribute_type_id" json:"attribute_type_id"`
	Value           string              `db:"value" json:"value"`
	NumericValue    decimal.NullDecimal `db:"numeric_value" json:"numeric_value"`
	DateValue       *time.Time          `db:"date_value" json:"date_value"`
	BooleanValue    *bool               `db:"boolean_value" json:"boolean_value"`
}

type FormattedAttribute struct {
	CategoryName string   `db:"category_name" json:"category_name"`
	Name         string   `db:"attribute_name" json:"name"`
	DataType     DataKind `db:"data_type" json:"data_type"`
	Value        string   `db:"value" json:"value"`
	Unit         *string  `db:"unit" json:"unit"`
	BooleanValue *bool    `db:"boolean_value" json:"-"`
	Display      string   `db:"-" json:"display"`
}
