package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
	"github.com/NeuralStories/cortinas-presupuesto/internal/infra/metrics"
	"github.com/NeuralStories/cortinas-presupuesto/internal/quote"
)

// refreshCatalog re-reads the active catalog into the session. The fetch
// token is taken under the session lock, the database read runs outside it so
// a slow catalog query never stalls other sessions, and the result is applied
// under the lock again. Read failures are non-fatal: the session keeps
// whatever catalog it already had.
func (h *Handler) refreshCatalog(ctx context.Context, id string) error {
	var seq uint64
	if err := h.sessions.Do(id, func(s *quote.Session) error {
		seq = s.BeginCatalogFetch()
		return nil
	}); err != nil {
		return err
	}

	mats, err := h.materials.List(ctx, true)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		h.log.Warn("catalog read failed, keeping previous state", "err", err)
		return nil
	}
	metrics.CatalogReloads.WithLabelValues("ok").Inc()

	return h.sessions.Do(id, func(s *quote.Session) error {
		h.engine.ApplyCatalog(s, mats, seq)
		return nil
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, _ := h.sessions.Create()
	_ = h.refreshCatalog(r.Context(), id)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

type contactRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"razon_social"`
	TaxID       string `json:"cif"`
	Address     string `json:"direccion"`
	Region      string `json:"region"`
	Goal        string `json:"goal"`
}

func (h *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal := quote.GoalSimulation
	if req.Goal == string(quote.GoalInfo) {
		goal = quote.GoalInfo
	}

	err := h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		s.Contact = quote.ContactForm{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			CompanyName: req.CompanyName,
			TaxID:       req.TaxID,
			Address:     req.Address,
			Region:      req.Region,
			Goal:        goal,
		}
		if s.Step < quote.StepContact {
			s.Step = quote.StepContact
		}

		v := quote.ValidateContact(s.Contact)
		writeJSON(w, http.StatusOK, map[string]any{
			"fields": map[string]bool{
				"first_name":   v.FirstName,
				"last_name":    v.LastName,
				"email":        v.Email,
				"phone":        v.Phone,
				"razon_social": v.CompanyName,
				"cif":          v.TaxID,
				"direccion":    v.Address,
				"region":       v.Region,
			},
			"can_proceed": v.All(),
		})
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

type selectionRequest struct {
	Category          string   `json:"category"`
	MaterialID        string   `json:"material_id"`
	ComponentIDs      []string `json:"component_ids"`
	CustomDescription string   `json:"custom_description"`
}

func (h *Handler) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat := materials.ProductType(req.Category)
	if req.Category != "" && !cat.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	// Entering the selection step re-reads the catalog so edits made in the
	// back office while the customer was typing are picked up.
	if err := h.refreshCatalog(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	err := h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		h.engine.SetCategory(s, cat)
		s.CustomDescription = req.CustomDescription
		if s.Step < quote.StepSelection {
			s.Step = quote.StepSelection
		}

		if req.MaterialID != "" {
			if err := h.engine.SelectMaterial(s, req.MaterialID); err != nil {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return nil
			}
		}
		for _, id := range req.ComponentIDs {
			if err := h.engine.AddComponent(s, id); err != nil {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return nil
			}
		}

		writeJSON(w, http.StatusOK, h.selectionState(s))
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

func (h *Handler) selectionState(s *quote.Session) map[string]any {
	out := map[string]any{
		"category":    string(s.Category),
		"can_proceed": h.engine.CanProceedSelection(s),
		"resolved":    s.Selected != nil,
	}
	if s.Selected != nil {
		out["material_id"] = s.Selected.ID
		out["material_name"] = s.Selected.Name
	}
	if s.Category == materials.TypeCombined {
		ids := make([]string, len(s.Components))
		for i, c := range s.Components {
			ids[i] = c.ID
		}
		out["component_ids"] = ids
		out["matched"] = s.Matched != nil
	}
	return out
}

type measurementRequest struct {
	MaterialID string    `json:"material_id"`
	WidthCm    FlexFloat `json:"width_cm"`
	HeightCm   FlexFloat `json:"height_cm"`
}

func (h *Handler) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		if s.Step < quote.StepMeasure {
			s.Step = quote.StepMeasure
		}

		item, err := h.engine.AddMeasurement(s, req.MaterialID, float64(req.WidthCm), float64(req.HeightCm))
		var overErr *quote.OverMaxHeightError
		switch {
		case errors.As(err, &overErr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":        overErr.Error(),
				"height_error": true,
			})
			return nil
		case err != nil:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return nil
		}

		metrics.LinesPriced.Inc()
		writeJSON(w, http.StatusCreated, lineItemJSON(item, h.engine.HidePrice(s)))
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

func lineItemJSON(it *quote.LineItem, hidePrice bool) map[string]any {
	out := map[string]any{
		"id":          it.ID,
		"material_id": it.MaterialID,
		"width_cm":    it.WidthCm,
		"height_cm":   it.HeightCm,
		"quantity":    it.Quantity,
	}
	if !hidePrice {
		out["unit_price"] = it.UnitPrice
	}
	return out
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) handleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		if err := h.engine.AdjustQuantity(s, itemID, req.Delta); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return nil
		}
		writeJSON(w, http.StatusOK, lineItemJSON(s.Item(itemID), h.engine.HidePrice(s)))
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

func (h *Handler) handleRemoveMeasurement(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	err = h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		h.engine.RemoveMeasurement(s, itemID)
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	err := h.sessions.Do(chi.URLParam(r, "id"), func(s *quote.Session) error {
		totals := h.engine.Totals(s)
		hide := h.engine.HidePrice(s)

		items := make([]map[string]any, 0, len(s.Items))
		for i := range s.Items {
			items = append(items, lineItemJSON(&s.Items[i], hide))
		}

		out := map[string]any{
			"items":       items,
			"total_units": totals.Units,
			"hide_price":  hide,
			"outcome":     string(h.engine.Outcome(s)),
			"progress":    h.engine.Progress(s),
			"goal":        string(s.Contact.Goal),
			"gates": map[string]bool{
				"contact":      h.engine.CanProceedContact(s),
				"selection":    h.engine.CanProceedSelection(s),
				"measurements": h.engine.CanProceedMeasurements(s),
			},
			"minimum_units_met": totals.Units >= h.engine.Rules().MinimumUnits,
		}
		if !hide {
			out["total_price"] = totals.Price
		}
		writeJSON(w, http.StatusOK, out)
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
	}
}

func (h *Handler) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	mats, err := h.materials.List(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable, try again")
		return
	}
	writeJSON(w, http.StatusOK, materialsJSON(mats))
}
