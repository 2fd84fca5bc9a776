package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	// fabric 10/m, make 5/m, pleat 2, rail 20, installation 15,
	// margin 30%, freight 5%, flat freight 3, opening 1.5m, qty 4.
	res := Calculate(LinearInput{
		Quantity:         4,
		Opening:          1.5,
		PleatMultiplier:  2,
		FabricUnitPrice:  10,
		MakeUnitPrice:    5,
		RailCost:         20,
		InstallationCost: 15,
		MarginPct:        30,
		FreightPct:       5,
		FlatFreightUnit:  3,
	})
	if res == nil {
		t.Fatal("expected a result")
	}

	b := res.Breakdown
	nearlyEqual(t, "fabricNeeded", b.FabricNeeded, 3.0)
	nearlyEqual(t, "fabricCost", b.FabricCost, 30)
	nearlyEqual(t, "manufactureCost", b.ManufactureCost, 15)
	nearlyEqual(t, "unitCost", b.UnitCost, 80)
	nearlyEqual(t, "unitPriceMargin", b.UnitPriceMargin, 104)
	nearlyEqual(t, "unitSalePrice", b.UnitSalePrice, 112.2)
	nearlyEqual(t, "totalFreight", b.TotalFreight, 12)
	nearlyEqual(t, "totalSalePrice", b.TotalSalePrice, 448.80)
	nearlyEqual(t, "totalProfit", b.TotalProfit, 96)
	nearlyEqual(t, "totalFreightMarkup", b.TotalFreightMarkup, 32.8)
}

func TestCalculate_PriceOrdering(t *testing.T) {
	res := Calculate(LinearInput{
		Quantity:        2,
		Opening:         2.37,
		PleatMultiplier: 1.8,
		FabricUnitPrice: 13.45,
		MakeUnitPrice:   4.99,
		RailCost:        11.5,
		MarginPct:       22,
		FreightPct:      7,
		FlatFreightUnit: 2.5,
	})
	if res == nil {
		t.Fatal("expected a result")
	}

	b := res.Breakdown
	if !(b.UnitCost <= b.UnitPriceMargin && b.UnitPriceMargin <= b.UnitSalePrice) {
		t.Fatalf("expected unitCost <= unitPriceMargin <= unitSalePrice, got %+v", b)
	}

	// profit + freight markup + base cost reconstruct the total within
	// per-unit rounding tolerance.
	reconstructed := b.TotalProfit + b.TotalFreightMarkup + 2*b.UnitCost
	if math.Abs(reconstructed-b.TotalSalePrice) > 0.01*2 {
		t.Fatalf("reconstructed total %v too far from %v", reconstructed, b.TotalSalePrice)
	}
}

func TestCalculate_RoundsEveryOutput(t *testing.T) {
	res := Calculate(LinearInput{
		Quantity:        3,
		Opening:         1.333,
		PleatMultiplier: 2.1,
		FabricUnitPrice: 9.99,
		MakeUnitPrice:   3.33,
		MarginPct:       17.5,
		FreightPct:      4.2,
		FlatFreightUnit: 1.11,
	})
	if res == nil {
		t.Fatal("expected a result")
	}

	b := res.Breakdown
	for name, v := range map[string]float64{
		"fabricNeeded":       b.FabricNeeded,
		"fabricCost":         b.FabricCost,
		"manufactureCost":    b.ManufactureCost,
		"unitCost":           b.UnitCost,
		"unitPriceMargin":    b.UnitPriceMargin,
		"unitSalePrice":      b.UnitSalePrice,
		"totalFreight":       b.TotalFreight,
		"totalSalePrice":     b.TotalSalePrice,
		"totalProfit":        b.TotalProfit,
		"totalFreightMarkup": b.TotalFreightMarkup,
	} {
		if math.Abs(v*100-math.Round(v*100)) > 1e-9 {
			t.Fatalf("%s = %v is not rounded to 2 decimals", name, v)
		}
	}
}

func TestCalculate_UnpriceableInputs(t *testing.T) {
	if res := Calculate(LinearInput{Quantity: 0, Opening: 1.5}); res != nil {
		t.Fatalf("zero quantity should not price, got %+v", res)
	}
	if res := Calculate(LinearInput{Quantity: 1, Opening: 0}); res != nil {
		t.Fatalf("zero opening should not price, got %+v", res)
	}
	if res := CalculateArea(AreaInput{Quantity: 1, FabricPerUnit: 0}); res != nil {
		t.Fatalf("zero fabric should not price, got %+v", res)
	}
}

func TestCalculateArea_FixedComponents(t *testing.T) {
	res := CalculateArea(AreaInput{
		Quantity:         2,
		FabricPerUnit:    3,
		FabricUnitPrice:  12,
		MakeCost:         18,
		PaddingCost:      6,
		FrameCost:        25,
		LacquerCost:      4,
		InstallationCost: 10,
		MarginPct:        30,
		FreightPct:       5,
		FlatFreightUnit:  3,
	})
	if res == nil {
		t.Fatal("expected a result")
	}

	b := res.Breakdown
	nearlyEqual(t, "fabricCost", b.FabricCost, 36)
	nearlyEqual(t, "unitCost", b.UnitCost, 99)
	nearlyEqual(t, "unitPriceMargin", b.UnitPriceMargin, 128.7)
	nearlyEqual(t, "unitSalePrice", b.UnitSalePrice, 138.14) // 128.7*1.05+3 = 138.135 → 138.14
	nearlyEqual(t, "totalSalePrice", b.TotalSalePrice, 276.27)
}
