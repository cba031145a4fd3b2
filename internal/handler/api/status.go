package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"GoldPulse/internal/domain/models"
	"GoldPulse/internal/service/ratelimit"
	"GoldPulse/internal/services/alertgate"
	"GoldPulse/internal/usecase"
	xhttp "GoldPulse/pkg/http"
	xlogger "GoldPulse/pkg/logger"
)

// Evaluator runs the decision pipeline on demand.
type Evaluator interface {
	RunOnce(ctx context.Context) (*usecase.RunOnceResult, error)
	Gate() alertgate.Snapshot
}

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
	Resolved() string
	Candidates() []string
}

type CatalystReader interface {
	News(ctx context.Context) ([]models.NewsItem, error)
	Macro(ctx context.Context) ([]models.MacroEvent, error)
}

// JobRunner triggers a scheduled job out of band.
type JobRunner interface {
	RunNow(ctx context.Context, name string) (bool, error)
}

// StatusInfo is static deployment info echoed by /health.
type StatusInfo struct {
	Telegram bool
	Interval string
	Backend  string
}

// StatusHandler serves health and the debug triggers.
type StatusHandler struct {
	logger    *xlogger.Logger
	info      StatusInfo
	eval      Evaluator
	resolver  Resolver
	catalysts CatalystReader
	jobs      JobRunner
	rl        *ratelimit.Limiter
	now       func() time.Time
}

// NewStatusHandler builds the handler. Debug routes hit the market data
// vendor, so they share a small per-client token bucket.
func NewStatusHandler(logger *xlogger.Logger, info StatusInfo, eval Evaluator, resolver Resolver, catalysts CatalystReader, jobs JobRunner) *StatusHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &StatusHandler{
		logger:    logger,
		info:      info,
		eval:      eval,
		resolver:  resolver,
		catalysts: catalysts,
		jobs:      jobs,
		rl:        ratelimit.New(3, 6),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (h *StatusHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api/v1/debug")
	g.POST("/run-once", h.RunOnce)
	g.POST("/resolve-symbol", h.ResolveSymbol)
	g.POST("/jobs/:name", h.RunJob)
}

type healthResponse struct {
	OK               bool               `json:"ok"`
	Telegram         bool               `json:"telegram"`
	Backend          string             `json:"backend"`
	ResolvedSymbol   *string            `json:"resolved_symbol"`
	SymbolCandidates []string           `json:"symbol_candidates"`
	Interval         string             `json:"interval"`
	NewsCached       int                `json:"news_cached"`
	MacroCached      int                `json:"macro_cached"`
	LastTrade        alertgate.Snapshot `json:"last_trade"`
	NowUTC           string             `json:"now_utc"`
}

func (h *StatusHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	res := healthResponse{
		OK:               true,
		Telegram:         h.info.Telegram,
		Backend:          h.info.Backend,
		SymbolCandidates: h.resolver.Candidates(),
		Interval:         h.info.Interval,
		LastTrade:        h.eval.Gate(),
		NowUTC:           h.now().Format("2006-01-02 15:04:05 UTC"),
	}
	if s := h.resolver.Resolved(); s != "" {
		res.ResolvedSymbol = &s
	}
	if news, err := h.catalysts.News(ctx); err == nil {
		res.NewsCached = len(news)
	}
	if macro, err := h.catalysts.Macro(ctx); err == nil {
		res.MacroCached = len(macro)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *StatusHandler) RunOnce(c echo.Context) error {
	if !h.rl.Allow(c.RealIP() + ":run-once") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError())
	}
	res, err := h.eval.RunOnce(c.Request().Context())
	if errors.Is(err, usecase.ErrNoCandles) {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("No candle data stored yet. Wait for the fetch job or fix the symbol.").WithError(err))
	}
	if err != nil {
		h.logger.Error("run-once failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StatusHandler) ResolveSymbol(c echo.Context) error {
	if !h.rl.Allow(c.RealIP() + ":resolve-symbol") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError())
	}
	s, err := h.resolver.Resolve(c.Request().Context())
	if err != nil {
		h.logger.Warn("resolve-symbol failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("symbol resolution failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"resolved_symbol": s})
}

type runJobResponse struct {
	Job string `json:"job"`
	Ran bool   `json:"ran"`
}

// RunJob runs one scheduled job now. A job that is already in flight is not
// started again and reports ran=false.
func (h *StatusHandler) RunJob(c echo.Context) error {
	name := c.Param("name")
	if !h.rl.Allow(c.RealIP() + ":jobs") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError())
	}
	ran, err := h.jobs.RunNow(c.Request().Context(), name)
	if errors.Is(err, usecase.ErrUnknownTask) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no scheduled job named %q", name))
	}
	if err != nil {
		h.logger.Warn("debug job run failed", xlogger.String("job", name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("job failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, runJobResponse{Job: name, Ran: ran})
}

var (
	_ JobRunner     = (*usecase.Scheduler)(nil)
	_ xhttp.Handler = (*StatusHandler)(nil)
	_ Evaluator     = (*usecase.TradeSignalJob)(nil)
	_ Resolver      = (*usecase.SymbolResolver)(nil)
)
