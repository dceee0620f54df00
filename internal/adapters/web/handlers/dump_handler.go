// Package handlers contains the HTTP handlers for the telemetry API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/netgauge/wifitel/internal/adapters/reporting"
	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/ports"
)

// TelemetryStore is the slice of the aggregation store the dump handler needs.
type TelemetryStore interface {
	Snapshot(mode domain.DumpMode) domain.Snapshot
	ActiveSessions() []domain.ConnectionSession
}

// DumpHandler renders and archives dump snapshots. Every dump freezes the
// store and clears the dump-scoped state, so callers get each datum once.
type DumpHandler struct {
	Store   TelemetryStore
	Archive ports.SnapshotArchive
}

func NewDumpHandler(store TelemetryStore, archive ports.SnapshotArchive) *DumpHandler {
	return &DumpHandler{Store: store, Archive: archive}
}

// HandleDump serves GET /api/dump?mode={verbose|structured-clean|structured-verbose}.
func (h *DumpHandler) HandleDump(w http.ResponseWriter, r *http.Request) {
	mode := domain.ParseDumpMode(r.URL.Query().Get("mode"))

	snap := h.Store.Snapshot(mode)
	active := h.Store.ActiveSessions()

	out, err := reporting.Render(snap, active, mode)
	if err != nil {
		slog.Error("dump: render failed", "snapshot", snap.ID, "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	if h.Archive != nil {
		if err := h.Archive.SaveSnapshot(r.Context(), snap); err != nil {
			// The report still goes out; archiving is best effort.
			slog.Warn("dump: archive save failed", "snapshot", snap.ID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(out)
}
