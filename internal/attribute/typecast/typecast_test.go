package typecast

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schema(kind model.DataKind, allowed ...string) Schema {
	return Schema{Kind: kind, AllowedValues: allowed}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		schema Schema
		raw    string
		valid  bool
	}{
		{"numeric decimal", schema(model.KindNumeric), "42.5", true},
		{"numeric negative", schema(model.KindNumeric), "-3", true},
		{"numeric word", schema(model.KindNumeric), "forty", false},
		{"date iso", schema(model.KindDate), "2024-02-29", true},
		{"date impossible", schema(model.KindDate), "2023-02-29", false},
		{"date other layout", schema(model.KindDate), "29/02/2024", false},
		{"boolean yes", schema(model.KindBoolean), "YES", true},
		{"boolean zero", schema(model.KindBoolean), "0", true},
		{"boolean maybe", schema(model.KindBoolean), "maybe", false},
		{"select member", schema(model.KindSelect, "Android", "iOS"), "Android", true},
		{"select non-member", schema(model.KindSelect, "Android", "iOS"), "Nokia", false},
		{"select case sensitive", schema(model.KindSelect, "Android", "iOS"), "android", false},
		{"select without set", schema(model.KindSelect), "anything", true},
		{"multiselect members", schema(model.KindMultiselect, "Android", "iOS"), "Android, iOS", true},
		{"multiselect stray token", schema(model.KindMultiselect, "Android", "iOS"), "Android,Nokia", false},
		{"multiselect without set", schema(model.KindMultiselect), "a,b", true},
		{"text", schema(model.KindText), "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.schema, tc.raw)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}

func TestValidate_PatternAfterKind(t *testing.T) {
	pattern := `^\d+GB$`
	s, err := SchemaOf(&model.AttributeType{DataType: model.KindText, ValidationRegex: &pattern})
	require.NoError(t, err)

	assert.NoError(t, Validate(s, "128GB"))
	assert.ErrorIs(t, Validate(s, "128 GB"), apperr.ErrValidation)

	numeric := `^\d+$`
	s, err = SchemaOf(&model.AttributeType{DataType: model.KindNumeric, ValidationRegex: &numeric})
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(s, "4.5"), apperr.ErrValidation)
	assert.NoError(t, Validate(s, "4"))
}

func TestSchemaOf(t *testing.T) {
	bad := `([`
	_, err := SchemaOf(&model.AttributeType{DataType: model.KindText, ValidationRegex: &bad})
	assert.ErrorIs(t, err, apperr.ErrConstraint)

	_, err = SchemaOf(&model.AttributeType{DataType: "colour"})
	assert.ErrorIs(t, err, apperr.ErrConstraint)

	s, err := SchemaOf(&model.AttributeType{DataType: model.KindSelect, AllowedValues: pq.StringArray{"S", "M"}})
	require.NoError(t, err)
	assert.Nil(t, s.Pattern)
	assert.Equal(t, []string{"S", "M"}, s.AllowedValues)
}

func TestCast(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		v := Cast(model.KindNumeric, "42.5")
		d, ok := v.Numeric()
		require.True(t, ok)
		assert.True(t, d.Equal(decimal.RequireFromString("42.5")))
		_, ok = v.Bool()
		assert.False(t, ok)
	})

	t.Run("date", func(t *testing.T) {
		d, ok := Cast(model.KindDate, "2024-05-01").Date()
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("boolean", func(t *testing.T) {
		b, ok := Cast(model.KindBoolean, "No").Bool()
		require.True(t, ok)
		assert.False(t, b)
	})

	t.Run("failure keeps raw and nulls projection", func(t *testing.T) {
		v := Cast(model.KindNumeric, "n/a")
		_, ok := v.Numeric()
		assert.False(t, ok)
		assert.Equal(t, "n/a", v.Raw())

		pa := &model.ProductAttribute{BooleanValue: new(bool)}
		v.Apply(pa)
		assert.Equal(t, "n/a", pa.Value)
		assert.False(t, pa.NumericValue.Valid)
		assert.Nil(t, pa.BooleanValue)
		assert.Nil(t, pa.DateValue)
	})

	t.Run("text has no projection", func(t *testing.T) {
		pa := &model.ProductAttribute{}
		Cast(model.KindText, "1").Apply(pa)
		assert.False(t, pa.NumericValue.Valid)
		assert.Nil(t, pa.BooleanValue)
	})
}
