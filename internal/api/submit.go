package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/orders"
	"github.com/NeuralStories/cortinas-presupuesto/internal/infra/metrics"
	"github.com/NeuralStories/cortinas-presupuesto/internal/quote"
)

// handleSubmit finalizes the session: last goal re-evaluation, order record
// build, append write, notification. Store failures surface a retryable
// message; the session stays intact for another attempt.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	err := h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		if !h.engine.CanProceedContact(s) {
			writeError(w, http.StatusUnprocessableEntity, "contact details are incomplete")
			return nil
		}
		if len(s.Items) > 0 {
			h.engine.FinishMeasurements(s)
		} else {
			s.Step = quote.StepSummary
		}

		order := h.buildOrder(s)
		saved, err := h.orders.Create(r.Context(), order)
		if err != nil {
			h.log.Error("order write failed", "err", err)
			writeError(w, http.StatusInternalServerError, "could not save the order, please retry")
			return nil
		}

		metrics.OrdersSubmitted.WithLabelValues(saved.Outcome).Inc()
		h.notifier.OrderSubmitted(saved)

		out := map[string]any{
			"order_id":    saved.ID,
			"outcome":     saved.Outcome,
			"total_units": saved.TotalUnits,
		}
		if saved.PriceShown {
			out["total_price"] = saved.TotalPrice
		}
		writeJSON(w, http.StatusCreated, out)
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

func (h *Handler) buildOrder(s *quote.Session) *orders.Order {
	totals := h.engine.Totals(s)

	lines := make([]orders.Line, 0, len(s.Items))
	for _, it := range s.Items {
		name := it.MaterialID
		if m := s.MaterialByID(it.MaterialID); m != nil {
			name = m.Name
		}
		lines = append(lines, orders.Line{
			MaterialID:   it.MaterialID,
			MaterialName: name,
			WidthCm:      it.WidthCm,
			HeightCm:     it.HeightCm,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
		})
	}

	sel := orders.Selection{
		Category:          string(s.Category),
		CustomDescription: s.CustomDescription,
	}
	if s.Selected != nil {
		sel.MaterialID = s.Selected.ID
		sel.MaterialName = s.Selected.Name
	}
	for _, c := range s.Components {
		sel.ComponentIDs = append(sel.ComponentIDs, c.ID)
	}

	return &orders.Order{
		FirstName:   s.Contact.FirstName,
		LastName:    s.Contact.LastName,
		Email:       s.Contact.Email,
		Phone:       s.Contact.Phone,
		CompanyName: s.Contact.CompanyName,
		TaxID:       s.Contact.TaxID,
		Address:     s.Contact.Address,
		Region:      s.Contact.Region,
		Goal:        string(s.Contact.Goal),
		Lines:       lines,
		Selection:   sel,
		TotalPrice:  totals.Price,
		TotalUnits:  totals.Units,
		Outcome:     string(h.engine.Outcome(s)),
		PriceShown:  !h.engine.HidePrice(s),
	}
}
