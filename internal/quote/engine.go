package quote

import (
	"errors"
	"fmt"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
	"github.com/NeuralStories/cortinas-presupuesto/internal/pricing"
)

// referenceWidthM converts a per-square-meter price into an effective
// per-linear-meter price: fabric rolls for these products come in a fixed
// 2.7 m width.
const referenceWidthM = 2.7

// Rules are the configurable business thresholds. The unit threshold and the
// monetary cap are deliberately independent settings.
type Rules struct {
	MinimumUnits    int
	MaxHeightCm     float64
	HidePriceUnits  int
	HidePriceAmount float64
}

// DefaultRules returns the production thresholds.
func DefaultRules() Rules {
	return Rules{
		MinimumUnits:    10,
		MaxHeightCm:     270,
		HidePriceUnits:  100,
		HidePriceAmount: 2500,
	}
}

var (
	ErrInvalidDimensions = errors.New("width and height must be greater than zero")
	ErrNoSelection       = errors.New("no material selected for this session")
)

// OverMaxHeightError rejects an opening taller than the configured maximum.
// Violating inputs are rejected, never clamped.
type OverMaxHeightError struct {
	HeightCm float64
	MaxCm    float64
}

func (e *OverMaxHeightError) Error() string {
	return fmt.Sprintf("height %.0f cm exceeds the %.0f cm maximum", e.HeightCm, e.MaxCm)
}

// Engine orchestrates pricing and selection over a Session. It holds no
// per-session state itself.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine { return &Engine{rules: rules} }

func (e *Engine) Rules() Rules { return e.rules }

// ApplyCatalog installs a fetched catalog into the session and re-resolves
// the current selection against it. Empty results and results from fetches
// older than the one already applied leave prior state untouched, so a failed
// or stale read never disturbs the session.
func (e *Engine) ApplyCatalog(s *Session, mats []materials.Material, seq uint64) {
	if len(mats) == 0 || seq <= s.appliedSeq {
		return
	}
	s.Catalog = mats
	s.appliedSeq = seq
	e.ResolveSelection(s)
}

// SetCategory switches the product category, clearing any previous material
// selection and assembled components.
func (e *Engine) SetCategory(s *Session, cat materials.ProductType) {
	s.Category = cat
	s.Selected = nil
	s.Matched = nil
	s.Components = nil
	e.ResolveSelection(s)
}

// SelectMaterial picks a concrete catalog entry for a non-combined category.
func (e *Engine) SelectMaterial(s *Session, id string) error {
	m := s.MaterialByID(id)
	if m == nil {
		return fmt.Errorf("material %s not in catalog", id)
	}
	s.Selected = m
	s.Category = m.Type
	e.ResolveSelection(s)
	return nil
}

// AddComponent adds a catalog entry to the combined set. Adding the same
// entry twice is a no-op.
func (e *Engine) AddComponent(s *Session, id string) error {
	m := s.MaterialByID(id)
	if m == nil {
		return fmt.Errorf("material %s not in catalog", id)
	}
	for _, c := range s.Components {
		if c.ID == id {
			return nil
		}
	}
	s.Components = append(s.Components, *m)
	e.ResolveSelection(s)
	return nil
}

// RemoveComponent drops a component from the combined set.
func (e *Engine) RemoveComponent(s *Session, id string) {
	out := s.Components[:0]
	for _, c := range s.Components {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.Components = out
	e.ResolveSelection(s)
}

// ResolveSelection re-derives the resolved selection from (category,
// components, catalog). It runs after every mutation of any of the three, so
// a previously matched combined entry is invalidated the moment the set no
// longer matches anything, and a plain selection picks up catalog edits.
func (e *Engine) ResolveSelection(s *Session) {
	if s.Category != materials.TypeCombined {
		s.Matched = nil
		if s.Selected != nil {
			// Refresh from the loaded catalog; if the entry vanished,
			// keep the version already selected.
			if updated := s.MaterialByID(s.Selected.ID); updated != nil {
				s.Selected = updated
			}
		}
		return
	}

	if len(s.Components) == 0 {
		s.Matched = nil
		s.Selected = nil
		return
	}

	ids := make([]string, len(s.Components))
	for i, c := range s.Components {
		ids[i] = c.ID
	}
	if m := MatchCombinedMaterial(ids, s.Catalog); m != nil {
		s.Matched = m
		s.Selected = m
	} else {
		s.Matched = nil
		s.Selected = nil
	}
}

// MatchCombinedMaterial finds the combined catalog entry whose component set
// equals componentIDs, compared as unordered sets. The first match wins when
// the catalog holds duplicates.
func MatchCombinedMaterial(componentIDs []string, catalog []materials.Material) *materials.Material {
	want := make(map[string]struct{}, len(componentIDs))
	for _, id := range componentIDs {
		want[id] = struct{}{}
	}

	for i := range catalog {
		m := &catalog[i]
		if m.Type != materials.TypeCombined {
			continue
		}
		if len(m.ComponentIDs) != len(want) {
			continue
		}
		all := true
		for _, id := range m.ComponentIDs {
			if _, ok := want[id]; !ok {
				all = false
				break
			}
		}
		if all {
			return m
		}
	}
	return nil
}

// ComputeLineUnitPrice prices one unit of an opening of the given width for
// the given material. The caller validates height beforehand; it does not
// participate in the formula. A custom-category selection is priced at zero
// on purpose: custom combinations have no formula inputs.
func (e *Engine) ComputeLineUnitPrice(s *Session, m *materials.Material, widthCm float64) float64 {
	if s.Category == materials.TypeCustom {
		return 0
	}

	fabricM := m.FabricPriceM
	makeM := m.MakePriceM
	if fabricM == 0 && m.FabricPriceM2 != 0 {
		fabricM = m.FabricPriceM2 * referenceWidthM
	}
	if makeM == 0 && m.MakePriceM2 != 0 {
		makeM = m.MakePriceM2 * referenceWidthM
	}

	res := pricing.Calculate(pricing.LinearInput{
		Quantity:         1,
		Opening:          widthCm / 100,
		PleatMultiplier:  m.PleatMultiplier,
		FabricUnitPrice:  fabricM,
		MakeUnitPrice:    makeM,
		RailCost:         m.RailCost,
		InstallationCost: m.InstallationCost,
		MarginPct:        m.MarginPct,
		FreightPct:       m.FreightPct,
		FlatFreightUnit:  m.FlatFreight,
	})
	if res == nil {
		return 0
	}
	return res.Breakdown.UnitSalePrice
}

// AddMeasurement creates a line item for the given selection material after
// validating the dimensions. Height above the maximum is rejected here, so
// pricing never sees an over-height opening.
func (e *Engine) AddMeasurement(s *Session, materialID string, widthCm, heightCm float64) (*LineItem, error) {
	var mat *materials.Material
	for _, m := range s.SelectionMaterials() {
		if m.ID == materialID {
			mat = &m
			break
		}
	}
	if mat == nil {
		return nil, ErrNoSelection
	}
	if widthCm <= 0 || heightCm <= 0 {
		return nil, ErrInvalidDimensions
	}
	if heightCm > e.rules.MaxHeightCm {
		return nil, &OverMaxHeightError{HeightCm: heightCm, MaxCm: e.rules.MaxHeightCm}
	}

	s.nextItemID++
	item := LineItem{
		ID:         s.nextItemID,
		MaterialID: mat.ID,
		WidthCm:    widthCm,
		HeightCm:   heightCm,
		Quantity:   1,
		UnitPrice:  e.ComputeLineUnitPrice(s, mat, widthCm),
	}
	s.Items = append(s.Items, item)
	return &s.Items[len(s.Items)-1], nil
}

// AdjustQuantity changes a line item's quantity by delta with a floor of one.
func (e *Engine) AdjustQuantity(s *Session, itemID int64, delta int) error {
	item := s.Item(itemID)
	if item == nil {
		return fmt.Errorf("line item %d not found", itemID)
	}
	item.Quantity += delta
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return nil
}

// RemoveMeasurement deletes a line item.
func (e *Engine) RemoveMeasurement(s *Session, itemID int64) {
	out := s.Items[:0]
	for _, it := range s.Items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	s.Items = out
}

// Totals aggregates the session's line items: Σ unitPrice×quantity and Σ
// quantity. Pure summation over already-rounded unit prices.
type Totals struct {
	Price float64
	Units int
}

func AggregateTotals(items []LineItem) Totals {
	var t Totals
	for _, it := range items {
		t.Price += it.UnitPrice * float64(it.Quantity)
		t.Units += it.Quantity
	}
	return t
}

func (e *Engine) Totals(s *Session) Totals { return AggregateTotals(s.Items) }

// HidePrice reports whether the computed price must be suppressed in favor of
// a "contact us" call to action: custom category, unit volume above the hide
// threshold, or total amount above the monetary cap.
func (e *Engine) HidePrice(s *Session) bool {
	t := e.Totals(s)
	return s.Category == materials.TypeCustom ||
		t.Units > e.rules.HidePriceUnits ||
		t.Price > e.rules.HidePriceAmount
}

// Outcome is where the finished wizard routes the customer.
type Outcome string

const (
	OutcomeDirectPurchase Outcome = "direct_purchase"
	OutcomeInfoRequest    Outcome = "info_request"
)

// Outcome routes to a direct purchase only when the minimum volume is met and
// the price is visible; everything else becomes an informational request.
func (e *Engine) Outcome(s *Session) Outcome {
	if e.Totals(s).Units >= e.rules.MinimumUnits && !e.HidePrice(s) {
		return OutcomeDirectPurchase
	}
	return OutcomeInfoRequest
}

// FinishMeasurements moves the session to the summary step. A volume
// shortfall discovered here retroactively downgrades the customer's declared
// goal to information-only.
func (e *Engine) FinishMeasurements(s *Session) {
	if e.Totals(s).Units < e.rules.MinimumUnits {
		s.Contact.Goal = GoalInfo
	}
	s.Step = StepSummary
}
