//go:build wireinject
// +build wireinject

package di

import (
	"GoldPulse/pkg/config"
	"GoldPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideLogDigest,
		ProvideKafkaConsumer,
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideCandleStore,
		ProvideAlertStore,
		ProvideAlertPublisher,
		ProvideCatalystCache,

		// Upstream sources
		ProvideTwelveData,
		ProvideGDELT,
		ProvideTradingEconomics,
		ProvideBinance,
		ProvideDepthStream,
		ProvideNotifier,

		// Domain services
		ProvideSymbolResolver,
		ProvideTradeGate,
		ProvideAssembler,
		ProvideEngine,

		// Delivery
		ProvideDeliveryJob,
		ProvideDeliveryQueue,
		ProvideDeliverer,

		// Use cases
		ProvideCandleIngestJob,
		ProvideNewsPollJob,
		ProvideMacroPollJob,
		ProvideTradeSignalJob,
		ProvideOrderBookMonitorJob,
		ProvideAlertSinkHandler,
		ProvideScheduler,

		// Application server
		ProvideHTTPHandler,
		ProvideResources,
		ProvideApp,
	)
	return &server.App{}, nil
}
