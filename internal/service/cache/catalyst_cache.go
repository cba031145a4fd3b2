package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"GoldPulse/internal/domain/models"
	pkgcache "GoldPulse/pkg/cache"
)

var (
	newsKey  = pkgcache.Key("catalysts", "news")
	macroKey = pkgcache.Key("catalysts", "macro")
)

// CatalystCache holds the last good news and macro pulls so the evaluator
// never waits on a slow upstream.
type CatalystCache struct {
	svc      pkgcache.Service
	newsTTL  time.Duration
	macroTTL time.Duration
}

func NewCatalystCache(svc pkgcache.Service, newsTTL, macroTTL time.Duration) *CatalystCache {
	return &CatalystCache{svc: svc, newsTTL: newsTTL, macroTTL: macroTTL}
}

func (c *CatalystCache) SetNews(ctx context.Context, items []models.NewsItem) error {
	if err := c.svc.Set(ctx, newsKey, items, c.newsTTL); err != nil {
		return fmt.Errorf("cache news: %w", err)
	}
	return nil
}

func (c *CatalystCache) SetMacro(ctx context.Context, events []models.MacroEvent) error {
	if err := c.svc.Set(ctx, macroKey, events, c.macroTTL); err != nil {
		return fmt.Errorf("cache macro: %w", err)
	}
	return nil
}

// News returns the cached items; a miss is an empty list, not an error.
func (c *CatalystCache) News(ctx context.Context) ([]models.NewsItem, error) {
	items, err := pkgcache.GetTyped[[]models.NewsItem](ctx, c.svc, newsKey)
	if errors.Is(err, pkgcache.ErrCacheMiss) {
		return nil, nil
	}
	return items, err
}

func (c *CatalystCache) Macro(ctx context.Context) ([]models.MacroEvent, error) {
	events, err := pkgcache.GetTyped[[]models.MacroEvent](ctx, c.svc, macroKey)
	if errors.Is(err, pkgcache.ErrCacheMiss) {
		return nil, nil
	}
	return events, err
}
