package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalrepo "GoldPulse/internal/repository"
	"GoldPulse/pkg/config"
	applogger "GoldPulse/pkg/logger"
	"GoldPulse/pkg/metrics"
	"GoldPulse/pkg/queue"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("environment: test\n"))
	require.NoError(t, err)
	return cfg
}

func TestProvideSchedulerSkipsDisabledJobs(t *testing.T) {
	cfg := testConfig(t)
	cfg.News.Enabled = false
	lg := applogger.Nop()
	m := metrics.Nop{}

	svc := ProvideCacheService(nil)
	defer svc.Close()
	catalysts := ProvideCatalystCache(cfg, svc)
	candles := internalrepo.NewMemoryCandleStore()
	pub := ProvideAlertPublisher(cfg, internalrepo.NewMemoryAlertStore(), nil)

	td := ProvideTwelveData(cfg, m)
	resolver := ProvideSymbolResolver(cfg, td)
	ingest := ProvideCandleIngestJob(cfg, resolver, td, candles, m, lg)
	news := ProvideNewsPollJob(cfg, ProvideGDELT(cfg, m), catalysts, m, lg)
	macro := ProvideMacroPollJob(cfg, ProvideTradingEconomics(cfg, m), catalysts, m, lg)
	signals := ProvideTradeSignalJob(cfg, resolver, candles, catalysts, ProvideAssembler(cfg), ProvideEngine(cfg),
		ProvideTradeGate(cfg), pub, nil, m, lg)

	stream := ProvideDepthStream(cfg, lg)
	assert.Nil(t, stream)
	monitor := ProvideOrderBookMonitorJob(cfg, ProvideBinance(cfg, m), stream, pub, nil, m, lg)
	require.NotNil(t, monitor)
	assert.False(t, monitor.Streaming())

	assert.Nil(t, news)
	s := ProvideScheduler(cfg, ingest, news, macro, signals, monitor, m, lg)
	assert.Equal(t, []string{"fetch_candles", "poll_macro", "evaluate_and_signal", "orderbook_monitor"}, s.Tasks())
}

func TestProvideSchedulerLeavesStreamedBooksOffTheClock(t *testing.T) {
	cfg := testConfig(t)
	cfg.Binance.UseStream = true
	lg := applogger.Nop()
	m := metrics.Nop{}
	pub := ProvideAlertPublisher(cfg, internalrepo.NewMemoryAlertStore(), nil)

	stream := ProvideDepthStream(cfg, lg)
	require.NotNil(t, stream)
	monitor := ProvideOrderBookMonitorJob(cfg, ProvideBinance(cfg, m), stream, pub, nil, m, lg)
	assert.True(t, monitor.Streaming())

	td := ProvideTwelveData(cfg, m)
	resolver := ProvideSymbolResolver(cfg, td)
	candles := internalrepo.NewMemoryCandleStore()
	s := ProvideScheduler(cfg, ProvideCandleIngestJob(cfg, resolver, td, candles, m, lg), nil, nil, nil, monitor, m, lg)
	assert.NotContains(t, s.Tasks(), "orderbook_monitor")
}

func TestDeliveryIsOffWithoutTelegram(t *testing.T) {
	cfg := testConfig(t)
	lg := applogger.Nop()
	m := metrics.Nop{}

	notifier := ProvideNotifier(cfg, m)
	assert.Nil(t, notifier)
	job := ProvideDeliveryJob(notifier, nil, m, lg)
	assert.Nil(t, job)
	q := ProvideDeliveryQueue(cfg, job, nil, lg)
	assert.Nil(t, q)
	assert.Nil(t, ProvideDeliverer(q))
}

func TestDeliveryUsesMemoryQueueWithoutRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telegram.Enabled = true
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "42"
	lg := applogger.Nop()
	m := metrics.Nop{}

	svc := ProvideCacheService(nil)
	defer svc.Close()
	job := ProvideDeliveryJob(ProvideNotifier(cfg, m), svc, m, lg)
	require.NotNil(t, job)
	q := ProvideDeliveryQueue(cfg, job, nil, lg)
	assert.IsType(t, &queue.MemoryQueue{}, q)
	assert.NotNil(t, ProvideDeliverer(q))
}

func TestAlertPublisherNeedsAProducerForKafka(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Type = "kafka"
	pub := ProvideAlertPublisher(cfg, internalrepo.NewMemoryAlertStore(), nil)
	assert.IsType(t, &internalrepo.StorePublisher{}, pub)
}

func TestHTTPHandlerWithoutOrderBook(t *testing.T) {
	cfg := testConfig(t)
	cfg.OrderBook.Enabled = false
	lg := applogger.Nop()
	m := metrics.Nop{}

	monitor := ProvideOrderBookMonitorJob(cfg, ProvideBinance(cfg, m), nil, nil, nil, m, lg)
	assert.Nil(t, monitor)

	svc := ProvideCacheService(nil)
	defer svc.Close()
	catalysts := ProvideCatalystCache(cfg, svc)
	td := ProvideTwelveData(cfg, m)
	resolver := ProvideSymbolResolver(cfg, td)
	store := internalrepo.NewMemoryAlertStore()
	signals := ProvideTradeSignalJob(cfg, resolver, internalrepo.NewMemoryCandleStore(), catalysts,
		ProvideAssembler(cfg), ProvideEngine(cfg), ProvideTradeGate(cfg), ProvideAlertPublisher(cfg, store, nil), nil, m, lg)

	s := ProvideScheduler(cfg, nil, nil, nil, signals, monitor, m, lg)
	h := ProvideHTTPHandler(cfg, lg, signals, resolver, catalysts, store, monitor, s)
	assert.NotNil(t, h)
}

func TestScoringConstantsComeFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Signal.Thresholds.RSIBull = 60
	cfg.Signal.MinConfidence = 70

	s := ProvideEngine(cfg).Settings()
	assert.Equal(t, 60.0, s.Thresholds.RSIBull)
	assert.Equal(t, 70, s.MinConfidence)
	assert.Equal(t, 0.95, s.Thresholds.NearEMA50ATR)
}
