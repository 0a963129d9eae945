//go:build wireinject
// +build wireinject

package di

import (
	"TokenRadar/pkg/config"
	"TokenRadar/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideCache,

		// Pipeline
		ProvideEngine,
		ProvideAggregator,
		ProvideStream,
		ProvideAdapters,
		ProvideRunner,

		// Delivery
		ProvideTelegram,
		ProvideHistory,
		ProvideScheduler,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
