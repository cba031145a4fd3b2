package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"GoldPulse/internal/domain/models"
	drepo "GoldPulse/internal/domain/repository"
)

type collectors struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	jobDuration   *prometheus.HistogramVec
	jobErrors     *prometheus.CounterVec
	decisions     *prometheus.CounterVec
	confidence    prometheus.Histogram
	tradeIdeas    *prometheus.CounterVec
	obAlerts      *prometheus.CounterVec
	obZ           *prometheus.GaugeVec
	lastPrice     *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

var (
	once sync.Once
	reg  *collectors
)

// Recorder implements the domain Metrics interface using Prometheus.
// All Recorders share one set of collectors on the default registry.
type Recorder struct {
	c *collectors
}

func New() *Recorder {
	once.Do(func() {
		reg = &collectors{
			fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "goldpulse_source_fetch_total",
				Help: "Upstream fetches by source and result",
			}, []string{"source", "result"}),
			fetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "goldpulse_source_fetch_duration_seconds",
				Help:    "Upstream fetch latency",
				Buckets: prometheus.DefBuckets,
			}, []string{"source"}),
			jobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "goldpulse_job_duration_seconds",
				Help:    "Scheduled job run duration",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			}, []string{"job"}),
			jobErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "goldpulse_job_errors_total",
				Help: "Scheduled job runs that returned an error",
			}, []string{"job"}),
			decisions: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "goldpulse_decisions_total",
				Help: "Decisions by direction",
			}, []string{"direction"}),
			confidence: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "goldpulse_decision_confidence",
				Help:    "Decision confidence score",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			}),
			tradeIdeas: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "goldpulse_trade_ideas_total",
				Help: "Trade ideas by outcome (sent or suppression reason)",
			}, []string{"outcome"}),
			obAlerts: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "goldpulse_orderbook_alerts_total",
				Help: "Order book alerts by event kind",
			}, []string{"event", "major"}),
			obZ: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "goldpulse_orderbook_zscore",
				Help: "Latest order book z-scores",
			}, []string{"symbol", "metric"}),
			lastPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "goldpulse_last_price",
				Help: "Last observed price for a symbol",
			}, []string{"symbol"}),
			errorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "goldpulse_errors_total",
				Help: "Errors by kind",
			}, []string{"type"}),
		}
	})
	return &Recorder{c: reg}
}

func (r *Recorder) RecordFetch(source string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.c.fetchTotal.WithLabelValues(source, result).Inc()
	r.c.fetchDuration.WithLabelValues(source).Observe(seconds)
}

func (r *Recorder) RecordJob(job string, seconds float64, err error) {
	r.c.jobDuration.WithLabelValues(job).Observe(seconds)
	if err != nil {
		r.c.jobErrors.WithLabelValues(job).Inc()
	}
}

func (r *Recorder) RecordDecision(d models.Decision) {
	r.c.decisions.WithLabelValues(string(d.Direction)).Inc()
	r.c.confidence.Observe(float64(d.Confidence))
}

func (r *Recorder) RecordTradeIdea(outcome string) {
	r.c.tradeIdeas.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordOrderBookAlert(alert models.OrderBookAlert) {
	major := "false"
	if alert.Major {
		major = "true"
	}
	for _, e := range alert.Events {
		r.c.obAlerts.WithLabelValues(string(e), major).Inc()
	}
}

func (r *Recorder) RecordOrderBookZ(symbol string, z models.ZScores) {
	r.c.obZ.WithLabelValues(symbol, "spread").Set(z.Spread)
	r.c.obZ.WithLabelValues(symbol, "imbalance").Set(z.Imbalance)
	r.c.obZ.WithLabelValues(symbol, "bid_depth").Set(z.BidDepth)
	r.c.obZ.WithLabelValues(symbol, "ask_depth").Set(z.AskDepth)
	r.c.obZ.WithLabelValues(symbol, "delta_bid").Set(z.DeltaBid)
	r.c.obZ.WithLabelValues(symbol, "delta_ask").Set(z.DeltaAsk)
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.c.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordError(kind string) {
	r.c.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop discards everything; used where metrics are optional.
type Nop struct{}

func (Nop) RecordFetch(string, float64, error)         {}
func (Nop) RecordJob(string, float64, error)           {}
func (Nop) RecordDecision(models.Decision)             {}
func (Nop) RecordTradeIdea(string)                     {}
func (Nop) RecordOrderBookAlert(models.OrderBookAlert) {}
func (Nop) RecordOrderBookZ(string, models.ZScores)    {}
func (Nop) RecordLastPrice(string, float64)            {}
func (Nop) RecordError(string)                         {}

var (
	_ drepo.Metrics = (*Recorder)(nil)
	_ drepo.Metrics = Nop{}
)
