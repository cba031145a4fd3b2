package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
	"GoldPulse/internal/repository"
	"GoldPulse/internal/services/alertgate"
	"GoldPulse/internal/services/orderbook"
	"GoldPulse/internal/usecase"
	xhttp "GoldPulse/pkg/http"
)

type fakeEval struct {
	res *usecase.RunOnceResult
	err error
}

func (f *fakeEval) RunOnce(context.Context) (*usecase.RunOnceResult, error) { return f.res, f.err }
func (f *fakeEval) Gate() alertgate.Snapshot                                { return alertgate.Snapshot{} }

type fakeResolver struct {
	resolved string
	err      error
}

func (f *fakeResolver) Resolve(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.resolved = "XAU/USD"
	return f.resolved, nil
}
func (f *fakeResolver) Resolved() string     { return f.resolved }
func (f *fakeResolver) Candidates() []string { return []string{"XAU/USD", "XAUUSD"} }

type fakeCatalysts struct{}

func (fakeCatalysts) News(context.Context) ([]models.NewsItem, error) {
	return []models.NewsItem{{Title: "a"}, {Title: "b"}}, nil
}
func (fakeCatalysts) Macro(context.Context) ([]models.MacroEvent, error) { return nil, nil }

type fakeBooks struct{}

func (fakeBooks) State(symbol string) (orderbook.State, bool) {
	if symbol != "" && symbol != "PAXGUSDT" {
		return orderbook.State{}, false
	}
	return orderbook.State{Symbol: "PAXGUSDT", Samples: 12, WindowSize: 48}, true
}

type fakeJobs struct {
	busy bool
	err  error
	ran  []string
}

func (f *fakeJobs) RunNow(_ context.Context, name string) (bool, error) {
	if name != "orderbook_monitor" {
		return false, usecase.ErrUnknownTask
	}
	if f.busy || f.err != nil {
		return false, f.err
	}
	f.ran = append(f.ran, name)
	return true, nil
}

func newServer(eval Evaluator, resolver Resolver, store *repository.MemoryAlertStore, books OrderBookStater) *echo.Echo {
	return newServerWithJobs(eval, resolver, store, books, &fakeJobs{})
}

func newServerWithJobs(eval Evaluator, resolver Resolver, store *repository.MemoryAlertStore, books OrderBookStater, jobs JobRunner) *echo.Echo {
	e := echo.New()
	xhttp.Handlers{
		NewStatusHandler(nil, StatusInfo{Telegram: true, Interval: "1min", Backend: "clickhouse"}, eval, resolver, fakeCatalysts{}, jobs),
		NewAlertsHandler(nil, store, books),
	}.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newServer(&fakeEval{}, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{})
	rec := do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["ok"])
	assert.Nil(t, got["resolved_symbol"])
	assert.EqualValues(t, 2, got["news_cached"])
	assert.EqualValues(t, 0, got["macro_cached"])
	assert.Equal(t, "1min", got["interval"])
}

func TestRunOnce(t *testing.T) {
	eval := &fakeEval{res: &usecase.RunOnceResult{Symbol: "XAU/USD", Bars: 300, Decision: models.Decision{Direction: models.NoTrade, Confidence: 42}}}
	e := newServer(eval, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{})

	rec := do(e, http.MethodPost, "/api/v1/debug/run-once", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"direction":"NO_TRADE"`)

	eval.res, eval.err = nil, usecase.ErrNoCandles
	rec = do(e, http.MethodPost, "/api/v1/debug/run-once", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResolveSymbol(t *testing.T) {
	res := &fakeResolver{}
	e := newServer(&fakeEval{}, res, repository.NewMemoryAlertStore(), fakeBooks{})

	rec := do(e, http.MethodPost, "/api/v1/debug/resolve-symbol", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"resolved_symbol":"XAU/USD"`)

	res.err = errors.New("vendor down")
	rec = do(e, http.MethodPost, "/api/v1/debug/resolve-symbol", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRunJob(t *testing.T) {
	jobs := &fakeJobs{}
	e := newServerWithJobs(&fakeEval{}, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{}, jobs)

	rec := do(e, http.MethodPost, "/api/v1/debug/jobs/orderbook_monitor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ran":true`)
	assert.Equal(t, []string{"orderbook_monitor"}, jobs.ran)

	jobs.busy = true
	rec = do(e, http.MethodPost, "/api/v1/debug/jobs/orderbook_monitor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ran":false`)

	rec = do(e, http.MethodPost, "/api/v1/debug/jobs/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunJobFailure(t *testing.T) {
	jobs := &fakeJobs{err: errors.New("binance down")}
	e := newServerWithJobs(&fakeEval{}, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{}, jobs)

	rec := do(e, http.MethodPost, "/api/v1/debug/jobs/orderbook_monitor", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDebugRoutesAreRateLimited(t *testing.T) {
	e := newServer(&fakeEval{res: &usecase.RunOnceResult{}}, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{})
	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		codes = append(codes, do(e, http.MethodPost, "/api/v1/debug/run-once", "").Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[4])
}

func TestAlertsListsNewestFirst(t *testing.T) {
	store := repository.NewMemoryAlertStore()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"o-1", "o-2", "o-3"} {
		require.NoError(t, store.SaveOrderBookAlert(context.Background(), models.OrderBookAlert{EventID: id, Symbol: "PAXGUSDT", Time: ts}))
	}
	e := newServer(&fakeEval{}, &fakeResolver{}, store, fakeBooks{})

	rec := do(e, http.MethodGet, "/api/v1/alerts?kind=orderbook&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Rows  []models.AlertRecord `json:"rows"`
			Total int                  `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Rows, 2)
	assert.Equal(t, "o-3", body.Data.Rows[0].ID)

	rec = do(e, http.MethodGet, "/api/v1/alerts?kind=chart", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderBookState(t *testing.T) {
	e := newServer(&fakeEval{}, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{})

	rec := do(e, http.MethodGet, "/api/v1/orderbook/state?symbol=PAXGUSDT", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"samples":12`)

	rec = do(e, http.MethodGet, "/api/v1/orderbook/state?symbol=BTCUSDT", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	disabled := newServer(&fakeEval{}, &fakeResolver{}, repository.NewMemoryAlertStore(), nil)
	rec = do(disabled, http.MethodGet, "/api/v1/orderbook/state", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRiskPlan(t *testing.T) {
	e := newServer(&fakeEval{}, &fakeResolver{}, repository.NewMemoryAlertStore(), fakeBooks{})

	rec := do(e, http.MethodPost, "/api/v1/risk-plan", `{"direction":"LONG","entry_mid":2000,"atr":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data models.RiskPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 1998.8, body.Data.EntryLow, 1e-9)
	assert.InDelta(t, 1994.8, body.Data.StopLoss, 1e-9)
	assert.InDelta(t, 2007.8, body.Data.TakeProfit1, 1e-9)
	assert.InDelta(t, 2013, body.Data.TakeProfit2, 1e-9)
	assert.InDelta(t, 1.5, body.Data.RiskReward, 1e-9)

	rec = do(e, http.MethodPost, "/api/v1/risk-plan", `{"direction":"NO_TRADE","entry_mid":2000,"atr":4}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(e, http.MethodPost, "/api/v1/risk-plan", `{"direction":"SHORT","entry_mid":2000,"atr":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
