package browseai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceCents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"plain decimal", "19.99", 1999},
		{"dollar sign", "$129.00", 12900},
		{"thousands separator", "$1,299.99", 129999},
		{"currency code", "49.50 USD", 4950},
		{"range takes lower", "19.99 - 29.99", 1999},
		{"range with symbols", "$19.99-$29.99", 1999},
		{"whole number", "45", 4500},
		{"embedded number", "from 12.50 per unit", 1250},
		{"empty", "", 0},
		{"no digits", "call for price", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePriceCents(tt.raw))
		})
	}
}
