package api

import (
	"github.com/labstack/echo/v4"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/services/engine"
	"GoldPulse/internal/services/orderbook"
	"GoldPulse/internal/usecase"
	xhttp "GoldPulse/pkg/http"
	xlogger "GoldPulse/pkg/logger"
)

// OrderBookStater exposes detector diagnostics.
type OrderBookStater interface {
	State(symbol string) (orderbook.State, bool)
}

// AlertsHandler serves persisted alerts, detector state and the risk calculator.
type AlertsHandler struct {
	logger *xlogger.Logger
	store  domrepo.AlertStore
	books  OrderBookStater
}

// NewAlertsHandler builds the handler. books may be nil when order book
// monitoring is disabled.
func NewAlertsHandler(logger *xlogger.Logger, store domrepo.AlertStore, books OrderBookStater) *AlertsHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AlertsHandler{logger: logger, store: store, books: books}
}

func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/alerts", h.Alerts)
	g.GET("/orderbook/state", h.OrderBookState)
	g.POST("/risk-plan", h.RiskPlan)
}

func (h *AlertsHandler) Alerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.store.RecentAlerts(c.Request().Context(), models.AlertKind(req.Kind), req.Limit)
	if err != nil {
		h.logger.Error("alerts query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *AlertsHandler) OrderBookState(c echo.Context) error {
	if h.books == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("order book monitoring is disabled"))
	}
	req := &models.OrderBookStateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	st, ok := h.books.State(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("symbol %s is not monitored", req.Symbol))
	}
	return xhttp.SuccessResponse(c, st)
}

func (h *AlertsHandler) RiskPlan(c echo.Context) error {
	req := &models.RiskPlanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	plan := engine.BuildRiskPlan(req.Direction, req.EntryMid, req.ATR, req.SLATRMult, req.TP1R, req.TP2R)
	return xhttp.SuccessResponse(c, plan)
}

var (
	_ xhttp.Handler   = (*AlertsHandler)(nil)
	_ OrderBookStater = (*usecase.OrderBookMonitorJob)(nil)
)
