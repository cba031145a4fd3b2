package features

import (
	"math"
	"strings"

	"GoldPulse/internal/domain/models"
)

// Catalysts scores news and macro items. It only looks at titles.
func (a *Assembler) Catalysts(news []models.NewsItem, macro []models.MacroEvent) models.Catalysts {
	titles := make([]string, 0, len(news))
	for _, n := range news {
		titles = append(titles, n.Title)
	}
	text := strings.ToLower(strings.Join(titles, " "))

	bull := countHits(text, a.cfg.BullWords, strings.ToLower)
	bear := countHits(text, a.cfg.BearWords, strings.ToLower)

	bias := models.BiasNeutral
	switch {
	case bull > bear:
		bias = models.BiasBull
	case bear > bull:
		bias = models.BiasBear
	}

	var macroScore float64
	if len(macro) > 0 {
		mt := make([]string, 0, len(macro))
		for _, m := range macro {
			mt = append(mt, m.Title)
		}
		upper := strings.ToUpper(strings.Join(mt, " "))
		hits := countHits(upper, a.cfg.MacroWords, strings.ToUpper)
		macroScore = math.Min(1, float64(hits)/a.cfg.MacroSaturation)
	}

	top := titles
	if len(top) > a.cfg.TopN {
		top = top[:a.cfg.TopN]
	}
	events := macro
	if len(events) > a.cfg.TopN {
		events = events[:a.cfg.TopN]
	}

	return models.Catalysts{
		Bias:        bias,
		NewsScore:   math.Min(1, float64(bull+bear)/a.cfg.NewsSaturation),
		MacroScore:  macroScore,
		TopNews:     append([]string{}, top...),
		MacroEvents: append([]models.MacroEvent{}, events...),
	}
}

// countHits counts keywords present in text, each at most once.
func countHits(text string, words []string, norm func(string) string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, norm(w)) {
			n++
		}
	}
	return n
}
