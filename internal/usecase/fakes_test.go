package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
)

type fakeCandleSource struct {
	mu        sync.Mutex
	resolves  int
	resolveTo []string
	fetchErr  map[string]error
	candles   []models.Candle
	fetched   []string
}

func (f *fakeCandleSource) ResolveSymbol(_ context.Context, candidates []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves++
	if len(f.resolveTo) == 0 {
		return "", errors.New("nothing matched")
	}
	s := f.resolveTo[0]
	if len(f.resolveTo) > 1 {
		f.resolveTo = f.resolveTo[1:]
	}
	return s, nil
}

func (f *fakeCandleSource) FetchCandles(_ context.Context, symbol, _ string, _ int) ([]models.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, symbol)
	if err := f.fetchErr[symbol]; err != nil {
		return nil, err
	}
	return append([]models.Candle(nil), f.candles...), nil
}

type fakeAssembler struct {
	fs    models.FeatureSet
	calls int
}

func (f *fakeAssembler) Assemble(_ []models.Candle, _ []models.NewsItem, _ []models.MacroEvent) models.FeatureSet {
	f.calls++
	return f.fs
}

type fakeEngine struct {
	d models.Decision
}

func (f *fakeEngine) Decide(models.FeatureSet) models.Decision { return f.d }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type recordingDeliverer struct {
	mu  sync.Mutex
	got []Delivery
	err error
}

func (r *recordingDeliverer) Deliver(_ context.Context, d Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, d)
	return nil
}

func (r *recordingDeliverer) all() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.got...)
}

type staticCatalysts struct {
	news  []models.NewsItem
	macro []models.MacroEvent
}

func (s *staticCatalysts) SetNews(_ context.Context, items []models.NewsItem) error {
	s.news = items
	return nil
}
func (s *staticCatalysts) SetMacro(_ context.Context, events []models.MacroEvent) error {
	s.macro = events
	return nil
}
func (s *staticCatalysts) News(context.Context) ([]models.NewsItem, error)    { return s.news, nil }
func (s *staticCatalysts) Macro(context.Context) ([]models.MacroEvent, error) { return s.macro, nil }

type fakeDepthSource struct {
	books []models.Depth
	i     int
}

func (f *fakeDepthSource) FetchDepth(_ context.Context, _ string, _ int) (models.Depth, error) {
	if f.i >= len(f.books) {
		return models.Depth{}, errors.New("no more books")
	}
	d := f.books[f.i]
	f.i++
	return d, nil
}

func minuteCandles(symbol string, n int, start time.Time) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		px := 2000 + float64(i%7)
		out[i] = models.Candle{
			Symbol: symbol, Interval: "1min", Time: start.Add(time.Duration(i) * time.Minute),
			Open: px, High: px + 1, Low: px - 1, Close: px,
		}
	}
	return out
}

var (
	_ domrepo.CandleSource = (*fakeCandleSource)(nil)
	_ domrepo.Notifier     = (*fakeNotifier)(nil)
	_ domrepo.DepthSource  = (*fakeDepthSource)(nil)
)
