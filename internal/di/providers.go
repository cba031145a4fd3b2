package di

import (
	"context"
	"fmt"
	"time"

	"GoldPulse/internal/domain/repository"
	"GoldPulse/internal/handler/api"
	mid "GoldPulse/internal/middleware"
	internalrepo "GoldPulse/internal/repository"
	"GoldPulse/internal/service/binance"
	icache "GoldPulse/internal/service/cache"
	"GoldPulse/internal/service/gdelt"
	"GoldPulse/internal/service/ratelimit"
	"GoldPulse/internal/service/source"
	"GoldPulse/internal/service/telegram"
	"GoldPulse/internal/service/tradingeconomics"
	"GoldPulse/internal/service/twelvedata"
	"GoldPulse/internal/services/alertgate"
	"GoldPulse/internal/services/engine"
	"GoldPulse/internal/services/features"
	"GoldPulse/internal/services/orderbook"
	"GoldPulse/internal/usecase"
	pkgcache "GoldPulse/pkg/cache"
	pkgch "GoldPulse/pkg/clickhouse"
	"GoldPulse/pkg/config"
	xhttp "GoldPulse/pkg/http"
	pkgkafka "GoldPulse/pkg/kafka"
	applogger "GoldPulse/pkg/logger"
	"GoldPulse/pkg/metrics"
	"GoldPulse/pkg/queue"
	"GoldPulse/pkg/server"
)

const userAgent = "GoldPulse/1.0"

// ProvideLogger builds the root logger from the logger section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient connects and applies the schema. It returns nil
// when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database, true),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCandleStore picks ClickHouse when connected, memory otherwise.
func ProvideCandleStore(ch *pkgch.Client, logger *applogger.Logger) repository.CandleStore {
	if ch == nil {
		logger.Warn("clickhouse disabled, candles kept in memory")
		return internalrepo.NewMemoryCandleStore()
	}
	s := internalrepo.NewCHCandleStore(ch)
	s.SetLogger(logger)
	return s
}

func ProvideAlertStore(ch *pkgch.Client, logger *applogger.Logger) repository.AlertStore {
	if ch == nil {
		return internalrepo.NewMemoryAlertStore()
	}
	s := internalrepo.NewCHAlertStore(ch)
	s.SetLogger(logger)
	return s
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are set.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogDigest ships folded error logs to the ops topic when Kafka is
// available.
func ProvideLogDigest(cfg *config.Config, logger *applogger.Logger, producer *pkgkafka.Producer) *applogger.Digest {
	if producer == nil || cfg.Kafka.OpsTopic == "" {
		return nil
	}
	d := applogger.NewDigest(applogger.DigestConfig{
		FlushInterval: time.Minute,
		MaxEntries:    100,
		Topic:         cfg.Kafka.OpsTopic,
		Publisher:     producer,
	})
	logger.AttachDigest(d)
	return d
}

// ProvideAlertPublisher writes straight to the store, or to Kafka when the
// sink consumer owns persistence.
func ProvideAlertPublisher(cfg *config.Config, store repository.AlertStore, producer *pkgkafka.Producer) repository.AlertPublisher {
	if cfg.Backend.Type == "kafka" && producer != nil {
		return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.AlertsTopic)
	}
	return internalrepo.NewStorePublisher(store)
}

// ProvideKafkaConsumer creates the alert sink consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config, logger *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers, cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.SetLogger(logger)
	consumer.SetHook(pkgkafka.TraceHook{})
	return consumer, nil
}

func ProvideAlertSinkHandler(cfg *config.Config, store repository.AlertStore, m repository.Metrics) *usecase.AlertSinkHandler {
	if !cfg.Kafka.Consumer.Enabled {
		return nil
	}
	return usecase.NewAlertSinkHandler(cfg.Kafka.AlertsTopic, store, m)
}

// ProvideRedisCache connects to Redis, or returns nil when it is disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := pkgcache.NewRedisCache(ctx,
		pkgcache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		pkgcache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		pkgcache.WithRedisPool(10, 2),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rc, nil
}

// ProvideCacheService layers a small in-process cache over Redis, or runs
// memory-only without it.
func ProvideCacheService(rc *pkgcache.RedisCache) pkgcache.Service {
	if rc == nil {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(1024), pkgcache.WithMemoryCleanup(time.Minute))
	}
	return pkgcache.NewLayeredCache(rc, 1024, 30*time.Second)
}

func ProvideCatalystCache(cfg *config.Config, svc pkgcache.Service) *icache.CatalystCache {
	return icache.NewCatalystCache(svc, cfg.News.CacheTTL, cfg.Macro.CacheTTL)
}

func sourceOpts(cfg *config.Config, m repository.Metrics) []source.Option {
	c := xhttp.NewClient(
		xhttp.WithTimeout(cfg.TwelveData.Timeout),
		xhttp.WithRetry(cfg.TwelveData.Retries, cfg.TwelveData.BackoffBase),
		xhttp.WithUserAgent(userAgent),
	)
	return []source.Option{source.WithClient(c), source.WithMetrics(m)}
}

func ProvideTwelveData(cfg *config.Config, m repository.Metrics) *twelvedata.Client {
	return twelvedata.New(cfg.TwelveData.APIKey, cfg.TwelveData.BaseURL, sourceOpts(cfg, m)...)
}

func ProvideGDELT(cfg *config.Config, m repository.Metrics) *gdelt.Client {
	return gdelt.New(cfg.News.BaseURL, cfg.News.MaxItems, cfg.News.RelevanceMin, sourceOpts(cfg, m)...)
}

func ProvideTradingEconomics(cfg *config.Config, m repository.Metrics) *tradingeconomics.Client {
	return tradingeconomics.New(cfg.Macro.APIKey, cfg.Macro.BaseURL, cfg.Macro.MaxItems, sourceOpts(cfg, m)...)
}

func ProvideBinance(cfg *config.Config, m repository.Metrics) *binance.Client {
	c := xhttp.NewClient(
		xhttp.WithTimeout(10*time.Second),
		xhttp.WithRetry(1, 300*time.Millisecond),
		xhttp.WithUserAgent(userAgent),
	)
	return binance.New(cfg.Binance.RESTURL, source.WithClient(c), source.WithMetrics(m))
}

// ProvideDepthStream returns nil unless the websocket feed is enabled.
func ProvideDepthStream(cfg *config.Config, logger *applogger.Logger) repository.DepthStream {
	if !cfg.OrderBook.Enabled || !cfg.Binance.UseStream {
		return nil
	}
	s := binance.NewStream(cfg.Binance.StreamURL, cfg.Binance.Symbol, cfg.Binance.ReconnectDelay, cfg.Binance.PingInterval)
	s.SetLogger(logger)
	return s
}

// ProvideNotifier returns nil when Telegram is not configured.
func ProvideNotifier(cfg *config.Config, m repository.Metrics) repository.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	c := xhttp.NewClient(
		xhttp.WithTimeout(20*time.Second),
		xhttp.WithRetry(1, time.Second),
		xhttp.WithUserAgent(userAgent),
	)
	limiter := ratelimit.New(cfg.Telegram.BurstPerMinute, cfg.Telegram.BurstPerMinute)
	return telegram.New(cfg.Telegram.BaseURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID, limiter,
		source.WithClient(c), source.WithMetrics(m))
}

func ProvideSymbolResolver(cfg *config.Config, td *twelvedata.Client) *usecase.SymbolResolver {
	return usecase.NewSymbolResolver(td, cfg.TwelveData.SymbolCandidates)
}

func ProvideTradeGate(cfg *config.Config) *alertgate.TradeGate {
	return alertgate.NewTradeGate(time.Duration(cfg.Signal.CooldownSec)*time.Second, cfg.Signal.NoveltyFrac)
}

func ProvideAssembler(cfg *config.Config) *features.Assembler {
	return features.New(cfg.Features)
}

func ProvideEngine(cfg *config.Config) *engine.Engine {
	s := engine.DefaultSettings()
	s.MinConfidence = cfg.Signal.MinConfidence
	s.SLATRMult = cfg.Signal.SLATRMult
	s.TP1R = cfg.Signal.TP1R
	s.TP2R = cfg.Signal.TP2R
	s.Thresholds = cfg.Signal.Thresholds
	return engine.New(s)
}

// ProvideDeliveryJob is nil without a notifier.
func ProvideDeliveryJob(notifier repository.Notifier, locks pkgcache.Service, m repository.Metrics, logger *applogger.Logger) *usecase.DeliveryJob {
	if notifier == nil {
		return nil
	}
	j := usecase.NewDeliveryJob(notifier, locks, m)
	j.SetLogger(logger)
	return j
}

// ProvideDeliveryQueue is Redis-backed when Redis is enabled so pending
// sends survive restarts.
func ProvideDeliveryQueue(cfg *config.Config, job *usecase.DeliveryJob, rc *pkgcache.RedisCache, logger *applogger.Logger) queue.Queue {
	if job == nil {
		return nil
	}
	qc := &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	if rc != nil {
		return queue.NewRedisQueue(logger, qc, rc.Client(), []queue.Job{job},
			queue.WithKeyPrefix(rc.Prefix()+":delivery"))
	}
	return queue.NewMemoryQueue(logger, qc, job)
}

func ProvideDeliverer(q queue.Queue) usecase.Deliverer {
	if q == nil {
		return nil
	}
	return usecase.NewQueueDeliverer(q)
}

func ProvideCandleIngestJob(cfg *config.Config, r *usecase.SymbolResolver, td *twelvedata.Client, store repository.CandleStore, m repository.Metrics, logger *applogger.Logger) *usecase.CandleIngestJob {
	j := usecase.NewCandleIngestJob(r, td, store, m, cfg.TwelveData.Interval, cfg.TwelveData.Lookback)
	j.SetLogger(logger)
	return j
}

func ProvideNewsPollJob(cfg *config.Config, src *gdelt.Client, store *icache.CatalystCache, m repository.Metrics, logger *applogger.Logger) *usecase.NewsPollJob {
	if !cfg.News.Enabled {
		return nil
	}
	j := usecase.NewNewsPollJob(src, store, m)
	j.SetLogger(logger)
	return j
}

func ProvideMacroPollJob(cfg *config.Config, src *tradingeconomics.Client, store *icache.CatalystCache, m repository.Metrics, logger *applogger.Logger) *usecase.MacroPollJob {
	if !cfg.Macro.Enabled {
		return nil
	}
	j := usecase.NewMacroPollJob(src, store, m)
	j.SetLogger(logger)
	return j
}

func ProvideTradeSignalJob(
	cfg *config.Config,
	r *usecase.SymbolResolver,
	candles repository.CandleStore,
	catalysts *icache.CatalystCache,
	assembler *features.Assembler,
	eng *engine.Engine,
	gate *alertgate.TradeGate,
	pub repository.AlertPublisher,
	deliverer usecase.Deliverer,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.TradeSignalJob {
	j := usecase.NewTradeSignalJob(usecase.SignalConfig{
		Interval:      cfg.TwelveData.Interval,
		Lookback:      cfg.TwelveData.Lookback,
		MinBars:       cfg.Signal.MinBars,
		MacroSuppress: cfg.Signal.MacroSuppress,
		Label:         cfg.Telegram.Label,
	}, usecase.SignalDeps{
		Resolver:  r,
		Candles:   candles,
		Catalysts: catalysts,
		Assembler: assembler,
		Engine:    eng,
		Gate:      gate,
		Publisher: pub,
		Deliverer: deliverer,
		Metrics:   m,
	})
	j.SetLogger(logger)
	return j
}

// ProvideOrderBookMonitorJob is nil when order book monitoring is disabled.
func ProvideOrderBookMonitorJob(
	cfg *config.Config,
	src *binance.Client,
	stream repository.DepthStream,
	pub repository.AlertPublisher,
	deliverer usecase.Deliverer,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.OrderBookMonitorJob {
	if !cfg.OrderBook.Enabled {
		return nil
	}
	ob := cfg.OrderBook
	s := orderbook.DefaultSettings()
	s.WindowSize = ob.WindowSize
	s.MinSamples = ob.MinSamples
	s.WallUSD = ob.WallUSD
	s.DeltaAbsUSD = ob.DeltaAbsUSD
	s.DeltaStdK = ob.DeltaStdK
	s.SpreadZ = ob.SpreadZ
	s.ImbalanceZ = ob.ImbalanceZ
	s.ImbalanceAbs = ob.ImbalanceAbs
	s.VacuumZ = ob.VacuumZ
	s.MajorImbalanceZ = ob.MajorImbalanceZ
	s.ConfirmWindow = ob.ConfirmWindow
	s.ConfirmHits = ob.ConfirmHits
	s.Cooldown = time.Duration(ob.CooldownSec) * time.Second

	symbol := cfg.Binance.Symbol
	proc := usecase.NewOrderBookProcessor(symbol,
		orderbook.DepthConfig{Band: ob.DepthBand, WallUSD: ob.WallUSD},
		orderbook.NewDetector(symbol, s), pub, deliverer, m)
	proc.SetLogger(logger)

	pipe := mid.NewDepthPipeline(proc, m, mid.WithMaxRPS(10))
	j := usecase.NewOrderBookMonitorJob(src, stream, proc, pipe, cfg.Binance.DepthLimit, m)
	j.SetLogger(logger)
	return j
}

// ProvideScheduler registers every enabled periodic job. The order book job
// is only polled when no stream feeds it.
func ProvideScheduler(
	cfg *config.Config,
	candles *usecase.CandleIngestJob,
	news *usecase.NewsPollJob,
	macro *usecase.MacroPollJob,
	signals *usecase.TradeSignalJob,
	monitor *usecase.OrderBookMonitorJob,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.Scheduler {
	s := usecase.NewScheduler(m)
	s.SetLogger(logger)
	s.Every(cfg.Schedule.CandlesEvery, candles)
	if news != nil {
		s.Every(cfg.Schedule.NewsEvery, news)
	}
	if macro != nil {
		s.Every(cfg.Schedule.MacroEvery, macro)
	}
	s.Every(cfg.Schedule.EvaluateEvery, signals)
	if monitor != nil && !monitor.Streaming() {
		s.Every(cfg.Schedule.OrderBookEvery, monitor)
	}
	return s
}

func ProvideHTTPHandler(
	cfg *config.Config,
	logger *applogger.Logger,
	signals *usecase.TradeSignalJob,
	r *usecase.SymbolResolver,
	catalysts *icache.CatalystCache,
	alerts repository.AlertStore,
	monitor *usecase.OrderBookMonitorJob,
	scheduler *usecase.Scheduler,
) xhttp.Handler {
	var books api.OrderBookStater
	if monitor != nil {
		books = monitor
	}
	info := api.StatusInfo{
		Telegram: cfg.Telegram.Enabled,
		Interval: cfg.TwelveData.Interval,
		Backend:  cfg.Backend.Type,
	}
	return xhttp.Handlers{
		api.NewStatusHandler(logger, info, signals, r, catalysts, scheduler),
		api.NewAlertsHandler(logger, alerts, books),
	}
}

func ProvideResources(ch *pkgch.Client, producer *pkgkafka.Producer, svc pkgcache.Service, digest *applogger.Digest) server.Resources {
	return server.Resources{ClickHouse: ch, Producer: producer, Cache: svc, Digest: digest}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	scheduler *usecase.Scheduler,
	monitor *usecase.OrderBookMonitorJob,
	delivery queue.Queue,
	consumer *pkgkafka.Consumer,
	sink *usecase.AlertSinkHandler,
	handler xhttp.Handler,
	res server.Resources,
) *server.App {
	var kh pkgkafka.MessageHandler
	if sink != nil {
		kh = sink
	}
	return server.New(cfg, logger, scheduler, monitor, delivery, consumer, kh, handler, res)
}
