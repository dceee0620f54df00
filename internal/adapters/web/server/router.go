package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netgauge/wifitel/internal/adapters/web/middleware"
)

// SetupRoutes builds the router for s. Dump requests clear the store, so they
// carry a tight rate limit on top of auth.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	auth := middleware.AuthMiddleware(s.TokenHash)
	dumpLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth)

	api.Handle("/dump",
		middleware.RateLimitMiddleware(dumpLimiter)(http.HandlerFunc(s.DumpHandler.HandleDump))).
		Methods(http.MethodGet, http.MethodPost)

	api.HandleFunc("/snapshots", s.SnapshotHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/snapshots/{id}", s.SnapshotHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/snapshots/{id}/pdf", s.SnapshotHandler.HandlePDF).Methods(http.MethodGet)

	r.Handle("/ws/usability", auth(http.HandlerFunc(s.WSManager.HandleWebSocket)))

	return r
}
