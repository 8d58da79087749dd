package typecast

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

// Value is a raw attribute string tagged with its data kind and the typed
// projection for that kind. At most one projection is set.
type Value struct {
	kind    model.DataKind
	raw     string
	numeric decimal.NullDecimal
	date    *time.Time
	boolean *bool
}

// Cast never fails: a raw string that does not parse as kind yields a Value
// whose projection is unset.
func Cast(kind model.DataKind, raw string) Value {
	v := Value{kind: kind, raw: raw}
	switch kind {
	case model.KindNumeric:
		if d, ok := parseNumeric(raw); ok {
			v.numeric = decimal.NewNullDecimal(d)
		}
	case model.KindDate:
		if t, ok := parseDate(raw); ok {
			v.date = &t
		}
	case model.KindBoolean:
		if b, ok := ParseBool(raw); ok {
			v.boolean = &b
		}
	}
	return v
}

func (v Value) Kind() model.DataKind { return v.kind }
func (v Value) Raw() string          { return v.raw }

func (v Value) Numeric() (decimal.Decimal, bool) {
	return v.numeric.Decimal, v.numeric.Valid
}

func (v Value) Date() (time.Time, bool) {
	if v.date == nil {
		return time.Time{}, false
	}
	return *v.date, true
}

func (v Value) Bool() (bool, bool) {
	if v.boolean == nil {
		return false, false
	}
	return *v.boolean, true
}

// Apply writes the raw string and projections onto pa, clearing projections
// that belong to other kinds.
func (v Value) Apply(pa *model.ProductAttribute) {
	pa.Value = v.raw
	pa.NumericValue = v.numeric
	pa.DateValue = v.date
	pa.BooleanValue = v.boolean
}
