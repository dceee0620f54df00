// Package server wires the telemetry HTTP API: dump, snapshot history,
// metrics, and the websocket usability feed.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/netgauge/wifitel/internal/adapters/reporting"
	"github.com/netgauge/wifitel/internal/adapters/web/handlers"
	web "github.com/netgauge/wifitel/internal/adapters/web/websocket"
	"github.com/netgauge/wifitel/internal/core/ports"
)

// Store is the aggregation surface the server exposes over HTTP.
type Store interface {
	handlers.TelemetryStore
	web.UsabilityFeed
}

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr      string
	TokenHash string

	WSManager       *web.WSManager
	DumpHandler     *handlers.DumpHandler
	SnapshotHandler *handlers.SnapshotHandler

	srv *http.Server
}

// NewServer creates the web server. archive may be nil when persistence is
// disabled.
func NewServer(addr, tokenHash string, store Store, archive ports.SnapshotArchive) *Server {
	return &Server{
		Addr:            addr,
		TokenHash:       tokenHash,
		WSManager:       web.NewWSManager(store),
		DumpHandler:     handlers.NewDumpHandler(store, archive),
		SnapshotHandler: handlers.NewSnapshotHandler(archive, reporting.NewPDFExporter()),
	}
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)
	instrumentedHandler := otelhttp.NewHandler(handler, "wifitel-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("web server shutdown error", "error", err)
		}
	}()

	slog.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
