package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
	"github.com/NeuralStories/cortinas-presupuesto/internal/pricing"
)

// materialRequest is the admin form payload. Numeric fields come through
// FlexFloat so locale-formatted decimal strings are accepted.
type materialRequest struct {
	Type        string `json:"tipo"`
	Name        string `json:"nombre"`
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Color       string `json:"color"`

	FabricPriceM    FlexFloat `json:"precio_tela_m"`
	MakePriceM      FlexFloat `json:"precio_confeccion_m"`
	FabricPriceM2   FlexFloat `json:"precio_tela_m2"`
	MakePriceM2     FlexFloat `json:"precio_confeccion_m2"`
	PleatMultiplier FlexFloat `json:"frunce"`
	FixedHeightM    FlexFloat `json:"alto_fijo_m"`

	MarginPct        FlexFloat `json:"margen_pct"`
	FreightPct       FlexFloat `json:"transporte_pct"`
	RailCost         FlexFloat `json:"coste_riel"`
	InstallationCost FlexFloat `json:"coste_instalacion"`
	FlatFreight      FlexFloat `json:"transporte_fijo"`

	ComponentIDs    []string  `json:"componentes"`
	DefaultQuantity FlexFloat `json:"cantidad_default"`
	DefaultOpening  FlexFloat `json:"hueco_default"`
}

func (req *materialRequest) toMaterial() *materials.Material {
	return &materials.Material{
		Type:             materials.ProductType(req.Type),
		Name:             req.Name,
		Code:             req.Code,
		Description:      req.Description,
		Color:            req.Color,
		FabricPriceM:     float64(req.FabricPriceM),
		MakePriceM:       float64(req.MakePriceM),
		FabricPriceM2:    float64(req.FabricPriceM2),
		MakePriceM2:      float64(req.MakePriceM2),
		PleatMultiplier:  float64(req.PleatMultiplier),
		FixedHeightM:     float64(req.FixedHeightM),
		MarginPct:        float64(req.MarginPct),
		FreightPct:       float64(req.FreightPct),
		RailCost:         float64(req.RailCost),
		InstallationCost: float64(req.InstallationCost),
		FlatFreight:      float64(req.FlatFreight),
		ComponentIDs:     req.ComponentIDs,
		DefaultQuantity:  float64(req.DefaultQuantity),
		DefaultOpening:   float64(req.DefaultOpening),
	}
}

// materialPatch is the update payload. Every field is optional; only keys
// present in the request body touch the stored material.
type materialPatch struct {
	Type        *string `json:"tipo"`
	Name        *string `json:"nombre"`
	Code        *string `json:"codigo"`
	Description *string `json:"descripcion"`
	Color       *string `json:"color"`

	FabricPriceM    *FlexFloat `json:"precio_tela_m"`
	MakePriceM      *FlexFloat `json:"precio_confeccion_m"`
	FabricPriceM2   *FlexFloat `json:"precio_tela_m2"`
	MakePriceM2     *FlexFloat `json:"precio_confeccion_m2"`
	PleatMultiplier *FlexFloat `json:"frunce"`
	FixedHeightM    *FlexFloat `json:"alto_fijo_m"`

	MarginPct        *FlexFloat `json:"margen_pct"`
	FreightPct       *FlexFloat `json:"transporte_pct"`
	RailCost         *FlexFloat `json:"coste_riel"`
	InstallationCost *FlexFloat `json:"coste_instalacion"`
	FlatFreight      *FlexFloat `json:"transporte_fijo"`

	ComponentIDs    *[]string  `json:"componentes"`
	DefaultQuantity *FlexFloat `json:"cantidad_default"`
	DefaultOpening  *FlexFloat `json:"hueco_default"`
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *FlexFloat) {
	if src != nil {
		*dst = float64(*src)
	}
}

func (p *materialPatch) apply(m *materials.Material) {
	if p.Type != nil {
		m.Type = materials.ProductType(*p.Type)
	}
	setStr(&m.Name, p.Name)
	setStr(&m.Code, p.Code)
	setStr(&m.Description, p.Description)
	setStr(&m.Color, p.Color)
	setFloat(&m.FabricPriceM, p.FabricPriceM)
	setFloat(&m.MakePriceM, p.MakePriceM)
	setFloat(&m.FabricPriceM2, p.FabricPriceM2)
	setFloat(&m.MakePriceM2, p.MakePriceM2)
	setFloat(&m.PleatMultiplier, p.PleatMultiplier)
	setFloat(&m.FixedHeightM, p.FixedHeightM)
	setFloat(&m.MarginPct, p.MarginPct)
	setFloat(&m.FreightPct, p.FreightPct)
	setFloat(&m.RailCost, p.RailCost)
	setFloat(&m.InstallationCost, p.InstallationCost)
	setFloat(&m.FlatFreight, p.FlatFreight)
	if p.ComponentIDs != nil {
		m.ComponentIDs = *p.ComponentIDs
	}
	setFloat(&m.DefaultQuantity, p.DefaultQuantity)
	setFloat(&m.DefaultOpening, p.DefaultOpening)
}

func materialJSON(m *materials.Material) map[string]any {
	return map[string]any{
		"id":                   m.ID,
		"tipo":                 string(m.Type),
		"nombre":               m.Name,
		"codigo":               m.Code,
		"descripcion":          m.Description,
		"color":                m.Color,
		"precio_tela_m":        m.FabricPriceM,
		"precio_confeccion_m":  m.MakePriceM,
		"precio_tela_m2":       m.FabricPriceM2,
		"precio_confeccion_m2": m.MakePriceM2,
		"frunce":               m.PleatMultiplier,
		"alto_fijo_m":          m.FixedHeightM,
		"margen_pct":           m.MarginPct,
		"transporte_pct":       m.FreightPct,
		"coste_riel":           m.RailCost,
		"coste_instalacion":    m.InstallationCost,
		"transporte_fijo":      m.FlatFreight,
		"componentes":          m.ComponentIDs,
		"cantidad_default":     m.DefaultQuantity,
		"hueco_default":        m.DefaultOpening,
		"activo":               m.Active,
		"created_at":           m.CreatedAt,
	}
}

func materialsJSON(mats []materials.Material) []map[string]any {
	out := make([]map[string]any, 0, len(mats))
	for i := range mats {
		out = append(out, materialJSON(&mats[i]))
	}
	return out
}

// validateMaterial checks the product type and, for combined entries, the
// component invariant against the current catalog.
func (h *Handler) validateMaterial(r *http.Request, m *materials.Material) (string, bool) {
	if !m.Type.Valid() {
		return "unknown product type", false
	}
	if m.Type != materials.TypeCombined && len(m.ComponentIDs) > 0 {
		return "components are only allowed on combined entries", false
	}
	if m.Type == materials.TypeCombined {
		all, err := h.materials.List(r.Context(), false)
		if err != nil {
			return "catalog unavailable, try again", false
		}
		byID := make(map[string]*materials.Material, len(all))
		for i := range all {
			byID[all[i].ID] = &all[i]
		}
		if err := m.ValidateComponents(byID); err != nil {
			return err.Error(), false
		}
	}
	return "", true
}

func (h *Handler) handleAdminListMaterials(w http.ResponseWriter, r *http.Request) {
	mats, err := h.materials.List(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable, try again")
		return
	}
	writeJSON(w, http.StatusOK, materialsJSON(mats))
}

func (h *Handler) handleAdminCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m := req.toMaterial()
	if msg, ok := h.validateMaterial(r, m); !ok {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := h.materials.Create(r.Context(), m)
	if err != nil {
		h.log.Error("material create failed", "name", m.Name, "err", err)
		writeError(w, http.StatusInternalServerError, "could not save the material, please retry")
		return
	}
	writeJSON(w, http.StatusCreated, materialJSON(created))
}

func (h *Handler) handleAdminUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch materialPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.materials.GetByID(r.Context(), id)
	if err != nil {
		h.log.Error("material read failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "could not load the material, please retry")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "material not found")
		return
	}

	// Merge onto a copy: keys absent from the payload keep their stored value.
	m := *existing
	patch.apply(&m)
	if msg, ok := h.validateMaterial(r, &m); !ok {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	updated, err := h.materials.Update(r.Context(), id, &m)
	if err != nil {
		h.log.Error("material update failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "could not save the material, please retry")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "material not found")
		return
	}
	writeJSON(w, http.StatusOK, materialJSON(updated))
}

type activeRequest struct {
	Active bool `json:"activo"`
}

func (h *Handler) handleAdminSetActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req activeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.materials.SetActive(r.Context(), id, req.Active); err != nil {
		h.log.Error("material set-active failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "could not update the material, please retry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "activo": req.Active})
}

// previewRequest feeds the back-office formula preview: the linear variant
// when an opening is given, the area variant when a per-unit fabric amount
// is given.
type previewRequest struct {
	Quantity        FlexFloat `json:"cantidad"`
	Opening         FlexFloat `json:"hueco"`
	PleatMultiplier FlexFloat `json:"frunce"`
	FabricPrice     FlexFloat `json:"precio_tela"`
	MakePrice       FlexFloat `json:"precio_confeccion"`
	RailCost        FlexFloat `json:"riel_barra"`

	FabricPerUnit FlexFloat `json:"tela_por_unidad"`
	MakeCost      FlexFloat `json:"confeccion"`
	PaddingCost   FlexFloat `json:"relleno"`
	FrameCost     FlexFloat `json:"armazon"`
	LacquerCost   FlexFloat `json:"lacado"`

	InstallationCost FlexFloat `json:"instalacion"`
	MarginPct        FlexFloat `json:"margen_pct"`
	FreightPct       FlexFloat `json:"transporte_pct"`
	FlatFreight      FlexFloat `json:"portes_unidad"`
}

func breakdownJSON(res *pricing.Result) map[string]float64 {
	b := res.Breakdown
	return map[string]float64{
		"tela_necesaria":          b.FabricNeeded,
		"total_tejido":            b.FabricCost,
		"confeccion":              b.ManufactureCost,
		"coste_unidad":            b.UnitCost,
		"precio_margen_unidad":    b.UnitPriceMargin,
		"pvp_unidad":              b.UnitSalePrice,
		"portes_totales":          b.TotalFreight,
		"pvp_total":               b.TotalSalePrice,
		"beneficio_total":         b.TotalProfit,
		"dinero_transporte_total": b.TotalFreightMarkup,
	}
}

func (h *Handler) handleAdminPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out := map[string]any{}

	if res := pricing.Calculate(pricing.LinearInput{
		Quantity:         float64(req.Quantity),
		Opening:          float64(req.Opening),
		PleatMultiplier:  float64(req.PleatMultiplier),
		FabricUnitPrice:  float64(req.FabricPrice),
		MakeUnitPrice:    float64(req.MakePrice),
		RailCost:         float64(req.RailCost),
		InstallationCost: float64(req.InstallationCost),
		MarginPct:        float64(req.MarginPct),
		FreightPct:       float64(req.FreightPct),
		FlatFreightUnit:  float64(req.FlatFreight),
	}); res != nil {
		out["cortina"] = breakdownJSON(res)
	}

	if res := pricing.CalculateArea(pricing.AreaInput{
		Quantity:         float64(req.Quantity),
		FabricPerUnit:    float64(req.FabricPerUnit),
		FabricUnitPrice:  float64(req.FabricPrice),
		MakeCost:         float64(req.MakeCost),
		PaddingCost:      float64(req.PaddingCost),
		FrameCost:        float64(req.FrameCost),
		LacquerCost:      float64(req.LacquerCost),
		InstallationCost: float64(req.InstallationCost),
		MarginPct:        float64(req.MarginPct),
		FreightPct:       float64(req.FreightPct),
		FlatFreightUnit:  float64(req.FlatFreight),
	}); res != nil {
		out["tapiceria"] = breakdownJSON(res)
	}

	writeJSON(w, http.StatusOK, out)
}
