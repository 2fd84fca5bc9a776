package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
)

func testCatalog() []materials.Material {
	return []materials.Material{
		{
			ID: "mat-cortina", Type: materials.TypeCurtain, Name: "Lino Natural",
			FabricPriceM: 10, MakePriceM: 5, PleatMultiplier: 2,
			RailCost: 20, InstallationCost: 15,
			MarginPct: 30, FreightPct: 5, FlatFreight: 3, Active: true,
		},
		{
			ID: "mat-visillo", Type: materials.TypeSheer, Name: "Visillo Bruma",
			FabricPriceM: 8, MakePriceM: 4, PleatMultiplier: 2.5,
			MarginPct: 30, FreightPct: 5, Active: true,
		},
		{
			ID: "mat-oscurante", Type: materials.TypeBlackout, Name: "Oscurante Noche",
			FabricPriceM2: 10, MakePriceM2: 4, PleatMultiplier: 2,
			MarginPct: 25, FreightPct: 5, Active: true,
		},
		{
			ID: "mat-combi", Type: materials.TypeCombined, Name: "Visillo + Oscurante",
			ComponentIDs: []string{"mat-visillo", "mat-oscurante"}, Active: true,
		},
		{
			ID: "mat-custom", Type: materials.TypeCustom, Name: "Personalizado", Active: true,
		},
	}
}

func newTestSession(e *Engine) *Session {
	s := NewSession()
	e.ApplyCatalog(s, testCatalog(), s.BeginCatalogFetch())
	return s
}

func TestComputeLineUnitPrice_LinearMaterial(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	require.NoError(t, e.SelectMaterial(s, "mat-cortina"))

	got := e.ComputeLineUnitPrice(s, s.Selected, 150)
	assert.InDelta(t, 112.2, got, 1e-9)
}

func TestComputeLineUnitPrice_AreaPriceConvertedToLinear(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	require.NoError(t, e.SelectMaterial(s, "mat-oscurante"))

	// 10 €/m2 and 4 €/m2 become 27 €/m and 10.8 €/m via the 2.7 m roll width.
	// fabricNeeded = 1 × 2 = 2; cost = 2×27 + 2×10.8 = 75.6;
	// margin 25% → 94.5; freight 5% → 99.225 → 99.23.
	got := e.ComputeLineUnitPrice(s, s.Selected, 100)
	assert.InDelta(t, 99.23, got, 1e-9)
}

func TestComputeLineUnitPrice_CustomIsZero(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	require.NoError(t, e.SelectMaterial(s, "mat-custom"))
	require.Equal(t, materials.TypeCustom, s.Category)

	got := e.ComputeLineUnitPrice(s, s.Selected, 150)
	assert.Zero(t, got)
}

func TestAddMeasurement_RejectsOverMaxHeight(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	require.NoError(t, e.SelectMaterial(s, "mat-cortina"))

	_, err := e.AddMeasurement(s, "mat-cortina", 150, 271)
	var overErr *OverMaxHeightError
	require.ErrorAs(t, err, &overErr)
	assert.Empty(t, s.Items)

	item, err := e.AddMeasurement(s, "mat-cortina", 150, 270)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.InDelta(t, 112.2, item.UnitPrice, 1e-9)
}

func TestAddMeasurement_RejectsZeroDimensionsAndUnknownMaterial(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	require.NoError(t, e.SelectMaterial(s, "mat-cortina"))

	_, err := e.AddMeasurement(s, "mat-cortina", 0, 200)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = e.AddMeasurement(s, "mat-visillo", 100, 200)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestAdjustQuantity_FloorsAtOne(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	require.NoError(t, e.SelectMaterial(s, "mat-cortina"))
	item, err := e.AddMeasurement(s, "mat-cortina", 150, 200)
	require.NoError(t, err)

	require.NoError(t, e.AdjustQuantity(s, item.ID, 3))
	assert.Equal(t, 4, s.Item(item.ID).Quantity)

	require.NoError(t, e.AdjustQuantity(s, item.ID, -10))
	assert.Equal(t, 1, s.Item(item.ID).Quantity)

	// Unit price is not recomputed on quantity changes.
	assert.InDelta(t, 112.2, s.Item(item.ID).UnitPrice, 1e-9)
}

func TestAggregateTotals(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 112.2, Quantity: 4},
		{UnitPrice: 50.5, Quantity: 2},
	}
	tot := AggregateTotals(items)
	assert.InDelta(t, 549.8, tot.Price, 1e-9)
	assert.Equal(t, 6, tot.Units)
}

func TestMatchCombinedMaterial_OrderIndependent(t *testing.T) {
	cat := testCatalog()

	m1 := MatchCombinedMaterial([]string{"mat-visillo", "mat-oscurante"}, cat)
	m2 := MatchCombinedMaterial([]string{"mat-oscurante", "mat-visillo"}, cat)
	require.NotNil(t, m1)
	require.NotNil(t, m2)
	assert.Equal(t, m1.ID, m2.ID)

	assert.Nil(t, MatchCombinedMaterial([]string{"mat-visillo"}, cat))
	assert.Nil(t, MatchCombinedMaterial([]string{"mat-visillo", "mat-oscurante", "mat-cortina"}, cat))
}

func TestResolveSelection_CombinedMatchAndInvalidation(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	e.SetCategory(s, materials.TypeCombined)

	require.NoError(t, e.AddComponent(s, "mat-visillo"))
	assert.Nil(t, s.Matched)

	require.NoError(t, e.AddComponent(s, "mat-oscurante"))
	require.NotNil(t, s.Matched)
	assert.Equal(t, "mat-combi", s.Matched.ID)
	assert.Equal(t, "mat-combi", s.Selected.ID)

	// Growing the set past the catalog entry invalidates the match even
	// though the old match object was still in memory.
	require.NoError(t, e.AddComponent(s, "mat-cortina"))
	assert.Nil(t, s.Matched)
	assert.Nil(t, s.Selected)

	e.RemoveComponent(s, "mat-cortina")
	require.NotNil(t, s.Matched)
}

func TestApplyCatalog_StaleAndEmptyResultsIgnored(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewSession()

	seqA := s.BeginCatalogFetch()
	seqB := s.BeginCatalogFetch()

	// The later fetch completes first.
	e.ApplyCatalog(s, testCatalog(), seqB)
	require.Len(t, s.Catalog, 5)

	// The stale result must not overwrite it.
	e.ApplyCatalog(s, testCatalog()[:1], seqA)
	assert.Len(t, s.Catalog, 5)

	// An empty (failed) re-read keeps prior state.
	e.ApplyCatalog(s, nil, s.BeginCatalogFetch())
	assert.Len(t, s.Catalog, 5)
}

func TestApplyCatalog_ReresolvesWithoutDroppingItems(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	e.SetCategory(s, materials.TypeCombined)
	require.NoError(t, e.AddComponent(s, "mat-visillo"))
	require.NoError(t, e.AddComponent(s, "mat-oscurante"))
	require.NotNil(t, s.Matched)

	_, err := e.AddMeasurement(s, "mat-visillo", 120, 200)
	require.NoError(t, err)

	// A reloaded catalog without the combined entry clears the match but
	// keeps the already-entered line items.
	trimmed := testCatalog()[:3]
	e.ApplyCatalog(s, trimmed, s.BeginCatalogFetch())
	assert.Nil(t, s.Matched)
	assert.Len(t, s.Items, 1)
}

func TestHidePrice(t *testing.T) {
	e := NewEngine(DefaultRules())

	s := newTestSession(e)
	e.SetCategory(s, materials.TypeCurtain)
	s.Items = []LineItem{{UnitPrice: 52, Quantity: 50}} // 2600 > 2500
	assert.True(t, e.HidePrice(s))

	s.Items = []LineItem{{UnitPrice: 40, Quantity: 50}} // 2000, 50 units
	assert.False(t, e.HidePrice(s))

	s.Items = []LineItem{{UnitPrice: 1, Quantity: 101}} // above unit threshold
	assert.True(t, e.HidePrice(s))

	s.Category = materials.TypeCustom
	s.Items = nil
	assert.True(t, e.HidePrice(s))
}

func TestOutcomeAndGoalDowngrade(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)
	e.SetCategory(s, materials.TypeCurtain)

	s.Items = []LineItem{{UnitPrice: 40, Quantity: 12}}
	assert.Equal(t, OutcomeDirectPurchase, e.Outcome(s))

	s.Items = []LineItem{{UnitPrice: 40, Quantity: 5}}
	assert.Equal(t, OutcomeInfoRequest, e.Outcome(s))

	// Finishing the measurements step below the minimum downgrades the goal.
	s.Contact.Goal = GoalSimulation
	e.FinishMeasurements(s)
	assert.Equal(t, GoalInfo, s.Contact.Goal)
	assert.Equal(t, StepSummary, s.Step)

	s.Items = []LineItem{{UnitPrice: 40, Quantity: 20}}
	s.Contact.Goal = GoalSimulation
	e.FinishMeasurements(s)
	assert.Equal(t, GoalSimulation, s.Contact.Goal)
}
