package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
)

func validContact() ContactForm {
	return ContactForm{
		FirstName:   "Pedro",
		LastName:    "García",
		Email:       "pedro@textil.es",
		Phone:       "612345678",
		CompanyName: "Textiles García SL",
		TaxID:       "A58818501",
		Address:     "Calle Mayor 1",
		Region:      "Madrid",
		Goal:        GoalSimulation,
	}
}

func TestValidateContact(t *testing.T) {
	v := ValidateContact(validContact())
	assert.True(t, v.All())

	f := validContact()
	f.TaxID = "A58818502" // bad control digit
	v = ValidateContact(f)
	assert.False(t, v.TaxID)
	assert.False(t, v.All())
	assert.True(t, v.Email)

	f = validContact()
	f.Phone = "512345678"
	assert.False(t, ValidateContact(f).Phone)

	f = validContact()
	f.FirstName = "   "
	assert.False(t, ValidateContact(f).FirstName)
}

func TestStepGates(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)

	assert.False(t, e.CanProceedContact(s))
	s.Contact = validContact()
	assert.True(t, e.CanProceedContact(s))

	assert.False(t, e.CanProceedSelection(s))
	e.SetCategory(s, materials.TypeCurtain)
	assert.True(t, e.CanProceedSelection(s))

	// Combined category can proceed even before the set resolves.
	e.SetCategory(s, materials.TypeCombined)
	assert.True(t, e.CanProceedSelection(s))

	assert.False(t, e.CanProceedMeasurements(s))
}

func TestProgress(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := newTestSession(e)

	assert.Equal(t, 0, e.Progress(s))

	// Contact step: half the fields filled → half of 25%.
	s.Step = StepContact
	s.Contact.FirstName = "Pedro"
	s.Contact.LastName = "García"
	s.Contact.Email = "pedro@textil.es"
	s.Contact.Phone = "612345678"
	assert.Equal(t, 13, e.Progress(s)) // round(12.5)

	s.Contact = validContact()
	assert.Equal(t, 25, e.Progress(s))

	// Selection step without a resolved material keeps only the 25%.
	s.Step = StepSelection
	assert.Equal(t, 25, e.Progress(s))
	require.NoError(t, e.SelectMaterial(s, "mat-cortina"))
	assert.Equal(t, 50, e.Progress(s))

	// Measurements: flat 10% plus units against the minimum.
	s.Step = StepMeasure
	assert.Equal(t, 50, e.Progress(s))
	_, err := e.AddMeasurement(s, "mat-cortina", 150, 200)
	require.NoError(t, err)
	assert.Equal(t, 63, e.Progress(s)) // 50 + 10 + 1/10·30 = 63

	require.NoError(t, e.AdjustQuantity(s, s.Items[0].ID, 9)) // 10 units
	assert.Equal(t, 90, e.Progress(s))

	require.NoError(t, e.AdjustQuantity(s, s.Items[0].ID, 90)) // capped share
	assert.Equal(t, 90, e.Progress(s))

	s.Step = StepSummary
	assert.Equal(t, 100, e.Progress(s))
}
