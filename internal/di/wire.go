//go:build wireinject
// +build wireinject

package di

import (
	"ACATN/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(opts Options) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideSource,

		// Metrics
		ProvidePrometheusRegistry,
		ProvideMetrics,

		// Configuration
		ProvideRegistry,

		// Audit sinks
		ProvideAuditSinks,
		ProvideSnapshotAuditor,

		// HTTP
		ProvideConfigHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
