// Package quote implements the quotation engine: per-session selection state,
// line-item pricing through the formula library, order totals and the
// business rules that gate price visibility and step advancement.
package quote

import (
	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
)

// Goal is the customer's declared intent. It can be downgraded to GoalInfo by
// the engine when the order falls short of the minimum volume.
type Goal string

const (
	GoalInfo       Goal = "info"
	GoalSimulation Goal = "simulation"
)

// Step indexes the wizard's ordered screens.
type Step int

const (
	StepWelcome   Step = 0
	StepContact   Step = 1
	StepSelection Step = 2
	StepMeasure   Step = 3
	StepSummary   Step = 4
)

// ContactForm carries the contact and billing fields of the first step.
type ContactForm struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
	TaxID       string
	Address     string
	Region      string
	Goal        Goal
}

// LineItem is one customer-entered opening. UnitPrice is computed once at
// creation time and never recomputed; width and height are immutable (delete
// and re-add to change them).
type LineItem struct {
	ID         int64
	MaterialID string
	WidthCm    float64
	HeightCm   float64
	Quantity   int
	UnitPrice  float64
}

// Session is the whole state of one quoting session. It is an explicit value
// passed to every engine call; sessions never share mutable data.
type Session struct {
	Contact ContactForm
	Step    Step

	// Selection state. Category is empty until the customer picks one.
	// For the combined category, Components is the set the customer is
	// assembling and Matched the catalog entry it resolves to, if any.
	Category          materials.ProductType
	Selected          *materials.Material
	Components        []materials.Material
	Matched           *materials.Material
	CustomDescription string

	Items   []LineItem
	Catalog []materials.Material

	nextItemID int64
	fetchSeq   uint64 // last issued catalog fetch token
	appliedSeq uint64 // token of the catalog currently applied
}

// NewSession starts a session at the welcome screen. The original goal
// defaults to simulation until a volume shortfall downgrades it.
func NewSession() *Session {
	return &Session{Contact: ContactForm{Goal: GoalSimulation}}
}

// BeginCatalogFetch issues a token for an in-flight catalog read. A result
// applied with an older token than a later-completed one is discarded.
func (s *Session) BeginCatalogFetch() uint64 {
	s.fetchSeq++
	return s.fetchSeq
}

// MaterialByID looks a material up in the session's loaded catalog.
func (s *Session) MaterialByID(id string) *materials.Material {
	for i := range s.Catalog {
		if s.Catalog[i].ID == id {
			return &s.Catalog[i]
		}
	}
	return nil
}

// SelectionMaterials returns the materials measurements are entered against:
// the assembled components for the combined category, otherwise the selected
// material.
func (s *Session) SelectionMaterials() []materials.Material {
	if s.Category == materials.TypeCombined {
		return s.Components
	}
	if s.Selected != nil {
		return []materials.Material{*s.Selected}
	}
	return nil
}

// Item returns the line item with the given id, or nil.
func (s *Session) Item(id int64) *LineItem {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}
