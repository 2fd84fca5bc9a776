package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

func serveXLSX(w http.ResponseWriter, f *excelize.File, name string) {
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		writeError(w, http.StatusInternalServerError, "could not build the export file")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}

// handleExportMaterials builds the catalog price list workbook.
func (h *Handler) handleExportMaterials(w http.ResponseWriter, r *http.Request) {
	mats, err := h.materials.List(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable, try again")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"id", "tipo", "nombre", "codigo",
		"precio_tela_m", "precio_confeccion_m",
		"precio_tela_m2", "precio_confeccion_m2",
		"frunce", "margen_pct", "transporte_pct",
		"coste_riel", "coste_instalacion", "transporte_fijo",
		"activo",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		writeError(w, http.StatusInternalServerError, "could not build the export file")
		return
	}

	row := 2
	for _, m := range mats {
		excelRow := []interface{}{
			m.ID, string(m.Type), m.Name, m.Code,
			m.FabricPriceM, m.MakePriceM,
			m.FabricPriceM2, m.MakePriceM2,
			m.PleatMultiplier, m.MarginPct, m.FreightPct,
			m.RailCost, m.InstallationCost, m.FlatFreight,
			m.Active,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not build the export file")
			return
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			writeError(w, http.StatusInternalServerError, "could not build the export file")
			return
		}
		row++
	}

	serveXLSX(w, f, fmt.Sprintf("materiales_%s.xlsx", time.Now().Format("20060102_150405")))
}

// handleExportOrders builds the submitted-orders workbook, one row per order.
func (h *Handler) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	ords, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "orders unavailable, try again")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"id", "created_at", "nombre", "apellidos", "razon_social", "cif",
		"email", "telefono", "region", "goal",
		"categoria", "material", "lineas", "unidades", "total", "outcome",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		writeError(w, http.StatusInternalServerError, "could not build the export file")
		return
	}

	row := 2
	for _, o := range ords {
		excelRow := []interface{}{
			o.ID, o.CreatedAt.Format(time.RFC3339),
			o.FirstName, o.LastName, o.CompanyName, o.TaxID,
			o.Email, o.Phone, o.Region, o.Goal,
			o.Selection.Category, o.Selection.MaterialName,
			len(o.Lines), o.TotalUnits, o.TotalPrice, o.Outcome,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not build the export file")
			return
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			writeError(w, http.StatusInternalServerError, "could not build the export file")
			return
		}
		row++
	}

	serveXLSX(w, f, fmt.Sprintf("pedidos_%s.xlsx", time.Now().Format("20060102_150405")))
}
