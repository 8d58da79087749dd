package validation

import (
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string   `validate:"required,max=10"`
	Rating *float64 `validate:"omitempty,gte=0,lte=5"`
	Color  *string  `validate:"omitempty,colorcode"`
	Status string   `validate:"oneof=in_stock out_of_stock"`
}

func TestStruct(t *testing.T) {
	good, bad := 4.5, 5.5
	red, short, notColor, alpha := "#ff0000", "#F0a", "red", "#ff000080"

	assert.NoError(t, Struct(&sample{Name: "ok", Rating: &good, Color: &red, Status: "in_stock"}))
	assert.NoError(t, Struct(&sample{Name: "ok", Color: &short, Status: "in_stock"}))
	assert.NoError(t, Struct(&sample{Name: "ok", Status: "out_of_stock"}))

	err := Struct(&sample{Name: "ok", Rating: &bad, Status: "in_stock"})
	assert.ErrorIs(t, err, apperr.ErrConstraint)
	assert.Contains(t, err.Error(), "Rating")

	err = Struct(&sample{Name: "ok", Color: &notColor, Status: "in_stock"})
	assert.ErrorIs(t, err, apperr.ErrConstraint)

	err = Struct(&sample{Name: "ok", Color: &alpha, Status: "in_stock"})
	assert.ErrorIs(t, err, apperr.ErrConstraint)

	err = Struct(&sample{Name: "", Status: "sold"})
	assert.ErrorIs(t, err, apperr.ErrConstraint)
	assert.Contains(t, err.Error(), "Status")
}
