package api

import "github.com/go-chi/chi/v5"

// Routes mounts the full API surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/materials", h.handleListMaterials)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/contact", h.handleUpdateContact)
			r.Put("/selection", h.handleUpdateSelection)
			r.Post("/measurements", h.handleAddMeasurement)
			r.Patch("/measurements/{itemID}", h.handleAdjustQuantity)
			r.Delete("/measurements/{itemID}", h.handleRemoveMeasurement)
			r.Get("/summary", h.handleSummary)
			r.Post("/submit", h.handleSubmit)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/materials", h.handleAdminListMaterials)
		r.Post("/materials", h.handleAdminCreateMaterial)
		r.Post("/materials/preview", h.handleAdminPreview)
		r.Get("/materials/export", h.handleExportMaterials)
		r.Put("/materials/{id}", h.handleAdminUpdateMaterial)
		r.Post("/materials/{id}/active", h.handleAdminSetActive)
		r.Get("/orders/export", h.handleExportOrders)
	})

	return r
}
