package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Running Shoes", "running-shoes"},
		{"  Men's   Shirts & Tops ", "mens-shirts-tops"},
		{"Samsung Galaxy S24 Ultra", "samsung-galaxy-s24-ultra"},
		{"Tab\tand\nnewline", "tab-and-newline"},
		{"Café", "caf"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	name := "Nike Air Max 90"
	first := Make(name)
	assert.Equal(t, first, Make(name))
	assert.Equal(t, "nike-air-max-90", first)
}

func TestWithSKU(t *testing.T) {
	assert.Equal(t, "air-max-nk-90", WithSKU("air-max", "NK-90"))
	assert.Equal(t, "air-max-nk90", WithSKU("air-max", " NK90 "))
}
