// Package pricing computes the monetary breakdown for one made-to-measure
// line item. Two formula families exist: linear (curtains and sheers, priced
// per linear meter of fabric) and area (blackout/upholstery style products,
// priced from a direct per-unit fabric amount). Both are pure functions.
package pricing

import "math"

// LinearInput holds the inputs of the curtain/sheer formula.
// Opening is the opening width in meters; PleatMultiplier is the fullness
// ratio applied to it to obtain the fabric needed.
type LinearInput struct {
	Quantity         float64
	Opening          float64
	PleatMultiplier  float64
	FabricUnitPrice  float64 // € per linear meter
	MakeUnitPrice    float64 // € per linear meter of manufacture
	RailCost         float64
	InstallationCost float64
	MarginPct        float64
	FreightPct       float64
	FlatFreightUnit  float64 // fixed freight € per unit
}

// AreaInput holds the inputs of the upholstery/blackout formula. FabricPerUnit
// is the fabric amount consumed by one unit, entered directly instead of being
// derived from the opening.
type AreaInput struct {
	Quantity         float64
	FabricPerUnit    float64
	FabricUnitPrice  float64
	MakeCost         float64
	PaddingCost      float64
	FrameCost        float64
	LacquerCost      float64
	InstallationCost float64
	MarginPct        float64
	FreightPct       float64
	FlatFreightUnit  float64
}

// Breakdown contains every intermediate value of a calculation. All fields are
// rounded to 2 decimals at the point of return; totals downstream must be
// built by summing these rounded values, not by re-deriving from unrounded
// intermediates.
type Breakdown struct {
	FabricNeeded       float64
	FabricCost         float64
	ManufactureCost    float64
	UnitCost           float64
	UnitPriceMargin    float64
	UnitSalePrice      float64
	TotalFreight       float64
	TotalSalePrice     float64
	TotalProfit        float64
	TotalFreightMarkup float64
}

// Result groups the full output of one formula run.
type Result struct {
	Breakdown Breakdown
}

// round2 rounds half away from zero at cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate runs the linear formula. It returns nil when quantity or opening
// is zero or negative: the item cannot be priced yet, which callers must keep
// distinct from a priced-at-zero item.
func Calculate(in LinearInput) *Result {
	if in.Quantity <= 0 || in.Opening <= 0 {
		return nil
	}

	fabricNeeded := in.Opening * in.PleatMultiplier
	fabricCost := fabricNeeded * in.FabricUnitPrice
	manufactureCost := fabricNeeded * in.MakeUnitPrice
	unitCost := fabricCost + manufactureCost + in.RailCost + in.InstallationCost
	unitPriceMargin := unitCost*(in.MarginPct/100) + unitCost
	unitSalePrice := unitPriceMargin*(in.FreightPct/100) + unitPriceMargin + in.FlatFreightUnit

	return &Result{Breakdown: Breakdown{
		FabricNeeded:       round2(fabricNeeded),
		FabricCost:         round2(fabricCost),
		ManufactureCost:    round2(manufactureCost),
		UnitCost:           round2(unitCost),
		UnitPriceMargin:    round2(unitPriceMargin),
		UnitSalePrice:      round2(unitSalePrice),
		TotalFreight:       round2(in.Quantity * in.FlatFreightUnit),
		TotalSalePrice:     round2(in.Quantity * unitSalePrice),
		TotalProfit:        round2((unitPriceMargin - unitCost) * in.Quantity),
		TotalFreightMarkup: round2((unitSalePrice - unitPriceMargin) * in.Quantity),
	}}
}

// CalculateArea runs the area formula. Fabric needed is the per-unit fabric
// input itself; cost accumulation swaps the rail for padding, frame and
// lacquer. Margin, freight and rounding behave exactly as in Calculate.
// Returns nil when quantity or fabric per unit is zero or negative.
func CalculateArea(in AreaInput) *Result {
	if in.Quantity <= 0 || in.FabricPerUnit <= 0 {
		return nil
	}

	fabricCost := in.FabricPerUnit * in.FabricUnitPrice
	unitCost := fabricCost + in.MakeCost + in.PaddingCost + in.FrameCost + in.LacquerCost + in.InstallationCost
	unitPriceMargin := unitCost*(in.MarginPct/100) + unitCost
	unitSalePrice := unitPriceMargin*(in.FreightPct/100) + unitPriceMargin + in.FlatFreightUnit

	return &Result{Breakdown: Breakdown{
		FabricNeeded:       round2(in.FabricPerUnit),
		FabricCost:         round2(fabricCost),
		ManufactureCost:    round2(in.MakeCost),
		UnitCost:           round2(unitCost),
		UnitPriceMargin:    round2(unitPriceMargin),
		UnitSalePrice:      round2(unitSalePrice),
		TotalFreight:       round2(in.Quantity * in.FlatFreightUnit),
		TotalSalePrice:     round2(in.Quantity * unitSalePrice),
		TotalProfit:        round2((unitPriceMargin - unitCost) * in.Quantity),
		TotalFreightMarkup: round2((unitSalePrice - unitPriceMargin) * in.Quantity),
	}}
}
