package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/netgauge/wifitel/internal/adapters/reporting"
	"github.com/netgauge/wifitel/internal/core/ports"
)

// SnapshotHandler serves the archived snapshot history.
type SnapshotHandler struct {
	Archive     ports.SnapshotArchive
	PDFExporter *reporting.PDFExporter
}

func NewSnapshotHandler(archive ports.SnapshotArchive, exporter *reporting.PDFExporter) *SnapshotHandler {
	return &SnapshotHandler{Archive: archive, PDFExporter: exporter}
}

// HandleList serves GET /api/snapshots?limit=N.
func (h *SnapshotHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	summaries, err := h.Archive.RecentSnapshots(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list snapshots", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// HandleGet serves GET /api/snapshots/{id}: the full archived snapshot as JSON.
func (h *SnapshotHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, err := h.Archive.GetSnapshot(r.Context(), id)
	if err != nil {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// HandlePDF serves GET /api/snapshots/{id}/pdf.
func (h *SnapshotHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, err := h.Archive.GetSnapshot(r.Context(), id)
	if err != nil {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}

	out, err := h.PDFExporter.ExportSnapshot(snap)
	if err != nil {
		http.Error(w, "failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=snapshot-"+id+".pdf")
	w.Write(out)
}
