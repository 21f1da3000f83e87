package pricing

import (
	"testing"

	"github.com/urbanthreads/storefront-service/internal/models"
)

func items(pairs ...[2]float64) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.OrderItem{Price: p[0], Qty: int(p[1])})
	}
	return out
}

func TestCalculate_WorkedExample(t *testing.T) {
	// $30 x 2 + $25 x 1 => 85.00 items, 10 shipping, 12.75 tax, 107.75 total.
	got := Calculate(items([2]float64{30, 2}, [2]float64{25, 1}))

	if got.ItemsPrice != 85.00 {
		t.Errorf("ItemsPrice = %v, want 85.00", got.ItemsPrice)
	}
	if got.ShippingPrice != 10 {
		t.Errorf("ShippingPrice = %v, want 10", got.ShippingPrice)
	}
	if got.TaxPrice != 12.75 {
		t.Errorf("TaxPrice = %v, want 12.75", got.TaxPrice)
	}
	if got.TotalPrice != 107.75 {
		t.Errorf("TotalPrice = %v, want 107.75", got.TotalPrice)
	}
}

func TestCalculate_FreeShippingBoundary(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.OrderItem
		wantItems    float64
		wantShipping float64
	}{
		{"just below threshold", items([2]float64{99.99, 1}), 99.99, 10},
		{"exactly at threshold", items([2]float64{100.00, 1}), 100.00, 0},
		{"just above threshold", items([2]float64{100.01, 1}), 100.01, 0},
		{"well above threshold", items([2]float64{75, 2}), 150.00, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.items)
			if got.ItemsPrice != tt.wantItems {
				t.Errorf("ItemsPrice = %v, want %v", got.ItemsPrice, tt.wantItems)
			}
			if got.ShippingPrice != tt.wantShipping {
				t.Errorf("ShippingPrice = %v, want %v", got.ShippingPrice, tt.wantShipping)
			}
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	in := items([2]float64{19.99, 3}, [2]float64{4.5, 7}, [2]float64{120, 1})

	first := Calculate(in)
	second := Calculate(in)

	if first != second {
		t.Errorf("Calculate not deterministic: %+v vs %+v", first, second)
	}
}

func TestCalculate_EmptyCart(t *testing.T) {
	got := Calculate(nil)

	if got != (Totals{}) {
		t.Errorf("empty cart totals = %+v, want all zero", got)
	}
}

func TestCalculate_RoundsToTwoDecimals(t *testing.T) {
	// 3 x 33.333 = 99.999 -> 100.00 items, free shipping, 15.00 tax.
	got := Calculate(items([2]float64{33.333, 3}))

	if got.ItemsPrice != 100.00 {
		t.Errorf("ItemsPrice = %v, want 100.00", got.ItemsPrice)
	}
	if got.ShippingPrice != 0 {
		t.Errorf("ShippingPrice = %v, want 0", got.ShippingPrice)
	}
	if got.TaxPrice != 15.00 {
		t.Errorf("TaxPrice = %v, want 15.00", got.TaxPrice)
	}
	if got.TotalPrice != 115.00 {
		t.Errorf("TotalPrice = %v, want 115.00", got.TotalPrice)
	}
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{12.345, 12.35},
		{12.344, 12.34},
		{0.005, 0.01},
		{10, 10},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
