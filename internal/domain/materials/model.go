package materials

import (
	"fmt"
	"time"
)

// ProductType determines which cost pair of a Material is meaningful:
// curtain/sheer carry per-linear-meter prices, blackout/opaque carry
// per-square-meter prices. Combined entries bundle other materials and
// custom entries have no formula inputs at all.
type ProductType string

const (
	TypeCurtain  ProductType = "cortina"
	TypeSheer    ProductType = "visillo"
	TypeBlackout ProductType = "oscurante"
	TypeOpaque   ProductType = "opacante"
	TypeCombined ProductType = "combinado"
	TypeCustom   ProductType = "personalizado"
)

// Linear reports whether the per-linear-meter cost pair applies.
func (t ProductType) Linear() bool {
	return t == TypeCurtain || t == TypeSheer
}

// Area reports whether the per-square-meter cost pair applies.
func (t ProductType) Area() bool {
	return t == TypeBlackout || t == TypeOpaque
}

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	switch t {
	case TypeCurtain, TypeSheer, TypeBlackout, TypeOpaque, TypeCombined, TypeCustom:
		return true
	}
	return false
}

// Material is one sellable catalog entry. Exactly one of the two cost pairs
// is populated depending on Type; the other stays zero.
type Material struct {
	ID          string
	Type        ProductType
	Name        string
	Code        string
	Description string
	Color       string

	FabricPriceM    float64 // € per linear meter (curtain/sheer)
	MakePriceM      float64
	FabricPriceM2   float64 // € per square meter (blackout/opaque)
	MakePriceM2     float64
	PleatMultiplier float64 // default fullness ratio, e.g. 2.0
	FixedHeightM    float64 // reference height for unit conversions only

	MarginPct        float64
	FreightPct       float64
	RailCost         float64
	InstallationCost float64
	FlatFreight      float64 // fixed freight € per unit

	// ComponentIDs is populated for combined entries only and must reference
	// materials that are themselves neither combined nor custom.
	ComponentIDs []string

	// Preview inputs for the back-office formula preview.
	DefaultQuantity float64
	DefaultOpening  float64

	Active    bool
	CreatedAt time.Time
}

// ValidateComponents enforces the combined-entry invariant against a lookup
// of the rest of the catalog.
func (m *Material) ValidateComponents(byID map[string]*Material) error {
	if m.Type != TypeCombined {
		if len(m.ComponentIDs) != 0 {
			return fmt.Errorf("material %q: components only allowed on combined entries", m.Name)
		}
		return nil
	}
	if len(m.ComponentIDs) == 0 {
		return fmt.Errorf("material %q: combined entry needs at least one component", m.Name)
	}
	for _, id := range m.ComponentIDs {
		c, ok := byID[id]
		if !ok {
			return fmt.Errorf("material %q: unknown component %s", m.Name, id)
		}
		if c.Type == TypeCombined || c.Type == TypeCustom {
			return fmt.Errorf("material %q: component %s is %s, nesting is not allowed", m.Name, id, c.Type)
		}
	}
	return nil
}
