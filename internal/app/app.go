// Package app bootstraps the telemetry engine: store, archive, web server,
// and the optional mock producer.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/netgauge/wifitel/internal/adapters/storage"
	webserver "github.com/netgauge/wifitel/internal/adapters/web/server"
	"github.com/netgauge/wifitel/internal/config"
	"github.com/netgauge/wifitel/internal/core/services/aggregate"
	"github.com/netgauge/wifitel/internal/core/services/atoms"
	"github.com/netgauge/wifitel/internal/mock"
	"github.com/netgauge/wifitel/internal/telemetry"
)

// Application holds the core components and orchestrates startup and
// shutdown.
type Application struct {
	Config    *config.Config
	Store     *aggregate.Store
	Archive   *storage.SQLiteArchive
	WebServer *webserver.Server

	mockProducer *mock.Producer
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	storeCfg := aggregate.DefaultConfig()
	if app.Config.UsabilityRingCapacity > 0 {
		storeCfg.UsabilityRingCapacity = app.Config.UsabilityRingCapacity
	}
	if app.Config.StaEventLogCapacity > 0 {
		storeCfg.StaEventLogCapacity = app.Config.StaEventLogCapacity
	}

	emitter := atoms.NewEmitter(logAtomSink{})
	app.Store = aggregate.NewStore(SystemClock{}, emitter, storeCfg)

	archive, err := app.initArchive()
	if err != nil {
		return err
	}
	app.Archive = archive

	app.WebServer = webserver.NewServer(app.Config.Addr, app.Config.TokenHash, app.Store, app.Archive)

	if app.Config.MockMode {
		app.mockProducer = mock.NewProducer(app.Store)
		slog.Info("mock mode active: synthesizing producer events")
	}

	return nil
}

func (app *Application) initArchive() (*storage.SQLiteArchive, error) {
	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	archive, err := storage.NewSQLiteArchive(app.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing snapshot archive: %w", err)
	}
	return archive, nil
}

// Run starts the application and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.mockProducer != nil {
		go app.mockProducer.Run(ctx)
	}

	err := app.WebServer.Run(ctx)

	if closeErr := app.Archive.Close(); closeErr != nil {
		slog.Error("closing snapshot archive", "error", closeErr)
	}
	return err
}
