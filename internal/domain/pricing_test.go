package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricingCompute(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		count    int
		subtotal string
		shipping string
		tax      string
		total    string
		freeShip bool
	}{
		{
			name:     "over threshold ships free",
			items:    []LineItem{item(1, "10", 2, "black"), item(2, "6", 1, "black")},
			count:    3,
			subtotal: "26.00",
			shipping: "0.00",
			tax:      "2.08",
			total:    "28.08",
			freeShip: true,
		},
		{
			name:     "under threshold pays fee",
			items:    []LineItem{item(1, "5", 1, "black")},
			count:    1,
			subtotal: "5.00",
			shipping: "5.99",
			tax:      "0.40",
			total:    "11.39",
		},
		{
			name:     "exactly at threshold is not free",
			items:    []LineItem{item(1, "25", 1, "black")},
			count:    1,
			subtotal: "25.00",
			shipping: "5.99",
			tax:      "2.00",
			total:    "32.99",
		},
		{
			name:     "empty cart",
			count:    0,
			subtotal: "0.00",
			shipping: "5.99",
			tax:      "0.00",
			total:    "5.99",
		},
		{
			name:     "rounding happens after accumulation",
			items:    []LineItem{item(1, "0.333", 3, "black")},
			count:    3,
			subtotal: "1.00",
			shipping: "5.99",
			tax:      "0.08",
			total:    "7.07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultPricing().Compute(tt.items)

			assert.Equal(t, tt.count, got.ItemCount)
			assert.Equal(t, tt.subtotal, FormatMoney(got.Subtotal))
			assert.Equal(t, tt.shipping, FormatMoney(got.Shipping))
			assert.Equal(t, tt.tax, FormatMoney(got.Tax))
			assert.Equal(t, tt.total, FormatMoney(got.Total))
			assert.Equal(t, tt.freeShip, got.FreeShipping())
		})
	}
}
