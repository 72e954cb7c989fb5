package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func price(v float64) *float64 { return &v }

func TestBuildSearchPath(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"empty filter is the bare endpoint", Filter{}, "/api/sweets/search"},
		{"category and min price", Filter{Category: "Indian", MinPrice: price(50)}, "/api/sweets/search?category=Indian&min_price=50"},
		{"fixed order", Filter{MaxPrice: price(9.99), Name: "laddu", MinPrice: price(1.5), Category: "Indian"},
			"/api/sweets/search?name=laddu&category=Indian&min_price=1.5&max_price=9.99"},
		{"only max", Filter{MaxPrice: price(100)}, "/api/sweets/search?max_price=100"},
		{"blank strings are absent", Filter{Name: "   ", Category: "\t"}, "/api/sweets/search"},
		{"strings are trimmed", Filter{Name: " laddu ", Category: "  "}, "/api/sweets/search?name=laddu"},
		{"zero price is present", Filter{MinPrice: price(0)}, "/api/sweets/search?min_price=0"},
		{"values are escaped", Filter{Name: "rasgulla & more", Category: "A/B"}, "/api/sweets/search?name=rasgulla+%26+more&category=A%2FB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchPath(tt.filter))
		})
	}
}
