package quote

import (
	"math"
	"strings"

	"github.com/NeuralStories/cortinas-presupuesto/internal/validate"
)

// ContactValidity carries the per-field state of the contact step, surfaced
// to the UI as per-field error flags.
type ContactValidity struct {
	FirstName   bool
	LastName    bool
	Email       bool
	Phone       bool
	CompanyName bool
	TaxID       bool
	Address     bool
	Region      bool
}

// All reports whether every field passed.
func (v ContactValidity) All() bool {
	return v.FirstName && v.LastName && v.Email && v.Phone &&
		v.CompanyName && v.TaxID && v.Address && v.Region
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }

// ValidateContact checks the eight required fields of the contact step:
// presence for the plain fields, format for email and phone, checksum for the
// tax identifier.
func ValidateContact(f ContactForm) ContactValidity {
	return ContactValidity{
		FirstName:   filled(f.FirstName),
		LastName:    filled(f.LastName),
		Email:       filled(f.Email) && validate.IsValidEmail(f.Email),
		Phone:       filled(f.Phone) && validate.IsValidPhone(f.Phone),
		CompanyName: filled(f.CompanyName),
		TaxID:       filled(f.TaxID) && validate.IsValidSpanishTaxID(f.TaxID),
		Address:     filled(f.Address),
		Region:      filled(f.Region),
	}
}

// CanProceedContact gates advancement past the contact step.
func (e *Engine) CanProceedContact(s *Session) bool {
	return ValidateContact(s.Contact).All()
}

// CanProceedSelection gates advancement past the product type step: a
// category must be chosen. A concrete material need not be resolved yet for
// the custom and combined categories.
func (e *Engine) CanProceedSelection(s *Session) bool {
	return s.Category != ""
}

// CanProceedMeasurements gates advancement past the measurements step: at
// least one line item. Falling short of the minimum volume changes the
// outcome, not the ability to advance.
func (e *Engine) CanProceedMeasurements(s *Session) bool {
	return len(s.Items) > 0
}

// Progress computes the weighted completion percentage. Contact contributes
// up to 25% scaled by filled fields, selection a flat 25% once resolved,
// measurements up to 40% (flat 10% for any line item plus up to 30% scaled by
// units against the minimum), and the final step always reports 100%. The
// percentage is presentation-only and never gates advancement.
func (e *Engine) Progress(s *Session) int {
	if s.Step == StepWelcome {
		return 0
	}
	if s.Step == StepSummary {
		return 100
	}

	progress := 0.0

	if s.Step > StepContact {
		progress += 25
	} else {
		fields := []string{
			s.Contact.FirstName, s.Contact.LastName, s.Contact.Email,
			s.Contact.Phone, s.Contact.CompanyName, s.Contact.TaxID,
			s.Contact.Address, s.Contact.Region,
		}
		n := 0
		for _, f := range fields {
			if filled(f) {
				n++
			}
		}
		progress += float64(n) / 8 * 25
	}

	if s.Step > StepSelection {
		progress += 25
	} else if s.Step == StepSelection && s.Selected != nil {
		progress += 25
	}

	if s.Step == StepMeasure && len(s.Items) > 0 {
		progress += 10
		unitShare := math.Min(1, float64(e.Totals(s).Units)/float64(e.rules.MinimumUnits))
		progress += unitShare * 30
	}

	p := int(math.Round(progress))
	if p > 100 {
		p = 100
	}
	return p
}
