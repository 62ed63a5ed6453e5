package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  Price
	}{
		{"¥299", Price{Value: 299, Currency: "¥"}},
		{"$19.99", Price{Value: 19.99, Currency: "$"}},
		{"€5", Price{Value: 5, Currency: "€"}},
		{"£7.5", Price{Value: 7.5, Currency: "£"}},
		{"299元", Price{Value: 299, Currency: "¥"}},
		{"299 RMB", Price{Value: 299, Currency: "¥"}},
		{"  42  ", Price{Value: 42, Currency: "¥"}},
		{"￥２９９", Price{Value: 299, Currency: "¥"}},
		{"about 12.5 each", Price{Value: 12.5, Currency: "¥"}},
		{"free", Price{Value: 0, Currency: "¥"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.input))
		})
	}
}

func TestPriceString(t *testing.T) {
	assert.Equal(t, "¥299", Price{Value: 299, Currency: "¥"}.String())
	assert.Equal(t, "$19.99", Price{Value: 19.99, Currency: "$"}.String())
}
