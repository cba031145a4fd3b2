package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"GoldPulse/internal/usecase"
	pkgcache "GoldPulse/pkg/cache"
	pkgch "GoldPulse/pkg/clickhouse"
	"GoldPulse/pkg/config"
	xhttp "GoldPulse/pkg/http"
	pkgkafka "GoldPulse/pkg/kafka"
	applogger "GoldPulse/pkg/logger"
	"GoldPulse/pkg/queue"
)

// Resources are the infrastructure clients the app closes on shutdown.
// Any of them may be nil.
type Resources struct {
	ClickHouse *pkgch.Client
	Producer   *pkgkafka.Producer
	Cache      pkgcache.Service
	Digest     *applogger.Digest
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	scheduler  *usecase.Scheduler
	monitor    *usecase.OrderBookMonitorJob
	delivery   queue.Queue
	consumer   *pkgkafka.Consumer
	sink       pkgkafka.MessageHandler
	handler    xhttp.Handler
	res        Resources
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. monitor, delivery,
// consumer and sink are optional.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	scheduler *usecase.Scheduler,
	monitor *usecase.OrderBookMonitorJob,
	delivery queue.Queue,
	consumer *pkgkafka.Consumer,
	sink pkgkafka.MessageHandler,
	handler xhttp.Handler,
	res Resources,
) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{
		cfg:       cfg,
		logger:    logger,
		scheduler: scheduler,
		monitor:   monitor,
		delivery:  delivery,
		consumer:  consumer,
		sink:      sink,
		handler:   handler,
		res:       res,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.start(ctx); err != nil {
		_ = a.shutdown(context.Background())
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
	case err := <-a.httpServer.Errors():
		a.logger.Error("http server failed", applogger.Error(err))
		runErr = err
	}

	cancel()
	if err := a.shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) start(ctx context.Context) error {
	if a.delivery != nil {
		if err := a.delivery.Start(); err != nil {
			return fmt.Errorf("delivery queue: %w", err)
		}
		a.logger.Info("delivery queue started")
	}

	if a.monitor != nil && a.monitor.Streaming() {
		if err := a.monitor.Start(ctx); err != nil {
			// fall back to REST polling for this process
			a.logger.Error("depth stream unavailable, polling instead", applogger.Error(err))
			a.scheduler.Every(a.cfg.Schedule.OrderBookEvery, a.monitor)
		} else {
			a.logger.Info("depth stream started", applogger.String("symbol", a.cfg.Binance.Symbol))
		}
	}

	a.scheduler.Start(ctx)
	a.logger.Info("jobs scheduled", applogger.Strings("tasks", a.scheduler.Tasks()))

	if a.consumer != nil && a.sink != nil {
		a.consumer.RegisterHandler(a.sink)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		a.logger.Info("alert sink consuming", applogger.String("topic", a.sink.Topic()))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithCORS(a.cfg.Server.CORS),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	)
	return a.httpServer.Start()
}

// shutdown stops producers of work before the clients they write to.
func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
			keep(err)
		}
	}
	if a.monitor != nil {
		if err := a.monitor.Shutdown(ctx); err != nil {
			a.logger.Warn("depth stream stop error", applogger.Error(err))
		}
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		a.logger.Warn("scheduler stop error", applogger.Error(err))
		keep(err)
	}
	if a.delivery != nil {
		if err := a.delivery.Stop(ctx); err != nil {
			a.logger.Warn("delivery queue stop error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// digest flushes through the producer, so it goes first
	if a.res.Digest != nil {
		a.logger.DetachDigest()
	}
	if a.res.Producer != nil {
		if err := a.res.Producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.res.Cache != nil {
		if err := a.res.Cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.res.ClickHouse != nil {
		if err := a.res.ClickHouse.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
