package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ACATN/internal/usecase"
	"ACATN/pkg/config"
	xhttp "ACATN/pkg/http"
	applogger "ACATN/pkg/logger"
)

// App encapsulates the service lifecycle: initialize configuration, publish
// the audit record, serve the inspection API until interrupted.
type App struct {
	registry   *config.Registry
	source     config.Source
	auditor    *usecase.SnapshotAuditor
	httpServer *xhttp.Server
	log        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	registry *config.Registry,
	source config.Source,
	auditor *usecase.SnapshotAuditor,
	httpServer *xhttp.Server,
	log *applogger.Logger,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		registry:   registry,
		source:     source,
		auditor:    auditor,
		httpServer: httpServer,
		log:        log,
	}
}

// Registry returns the configuration registry served by the app.
func (a *App) Registry() *config.Registry { return a.registry }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext is Run with caller-controlled cancellation. Audit sinks are
// closed on every return path.
func (a *App) RunContext(ctx context.Context) error {
	defer a.closeSinks()

	snap, err := a.registry.Initialize(a.source)
	if err != nil {
		return err
	}

	if a.auditor != nil {
		if _, err := a.auditor.Publish(ctx, snap); err != nil {
			a.log.Warn("snapshot audit incomplete", applogger.Error(err))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	a.shutdown()
	return nil
}

// shutdown gracefully stops the HTTP server.
func (a *App) shutdown() {
	a.log.Info("shutting down...")

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
}

func (a *App) closeSinks() {
	if a.auditor == nil {
		return
	}
	if err := a.auditor.Close(); err != nil {
		a.log.Warn("audit sink close error", applogger.Error(err))
	}
}
