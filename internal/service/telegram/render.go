package telegram

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"GoldPulse/internal/domain/models"
	"GoldPulse/pkg/util"
)

const (
	maxReasons  = 10
	maxNews     = 4
	maxNewsRune = 110
)

// FormatPrice renders 2-decimal prices with thousands separators.
func FormatPrice(px float64) string {
	s := decimal.NewFromFloat(px).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// RenderTrade builds the trade-idea message. The idea must carry a risk plan.
func RenderTrade(idea models.TradeIdea) string {
	d := idea.Decision
	r := d.Risk
	if r == nil {
		r = &models.RiskPlan{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 *Trade Idea (%s)* - *%s*  (confidence `%d/100`)\n", idea.Label, d.Direction, d.Confidence)
	fmt.Fprintf(&b, "• *Entry:* `%s` → `%s`\n", FormatPrice(r.EntryLow), FormatPrice(r.EntryHigh))
	fmt.Fprintf(&b, "• *SL:* `%s`\n", FormatPrice(r.StopLoss))
	fmt.Fprintf(&b, "• *TP1:* `%s` | *TP2:* `%s`\n", FormatPrice(r.TakeProfit1), FormatPrice(r.TakeProfit2))
	fmt.Fprintf(&b, "• *RR (to TP1):* `%.2f`\n\n", r.RiskReward)

	b.WriteString("*Why:*\n")
	reasons := d.Reasons
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	for i, reason := range reasons {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• " + reason)
	}

	b.WriteString("\n\n*Top news:*\n")
	news := idea.Features.Catalysts.TopNews
	if len(news) > maxNews {
		news = news[:maxNews]
	}
	if len(news) == 0 {
		b.WriteString("• (none cached)")
	}
	for i, t := range news {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• " + util.Truncate(t, maxNewsRune))
	}

	b.WriteString("\n\n_Not financial advice. Use your own risk controls._")
	return b.String()
}

// RenderOrderBook builds the order book alert message.
func RenderOrderBook(a models.OrderBookAlert) string {
	tags := make([]string, len(a.Events))
	for i, e := range a.Events {
		tags[i] = string(e)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 *Order Book Alert (%s)*", a.Symbol)
	if a.Major {
		b.WriteString(" - *MAJOR*")
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "• *Events:* `%s`\n", strings.Join(tags, ", "))
	fmt.Fprintf(&b, "• *Mid:* `%s`  *Spread:* `%.1f bps`\n", FormatPrice(a.Mid), a.SpreadBps)
	fmt.Fprintf(&b, "• *Imbalance:* `%+.2f`\n", a.Imbalance)
	z := a.ZScores
	fmt.Fprintf(&b, "• *z:* spread `%+.1f` | imb `%+.1f` | bid `%+.1f` | ask `%+.1f`\n", z.Spread, z.Imbalance, z.BidDepth, z.AskDepth)
	if a.Wall.Side != models.WallNone && a.Wall.Side != "" {
		fmt.Fprintf(&b, "• *Wall:* %s `%s` @ `%s`\n", a.Wall.Side, FormatNotional(a.Wall.USD), FormatPrice(a.Wall.Price))
	}
	b.WriteString("\n_Not financial advice._")
	return b.String()
}

// FormatNotional renders USD amounts as $950k / $1.2M.
func FormatNotional(usd float64) string {
	v := decimal.NewFromFloat(usd)
	switch {
	case usd >= 1e6:
		return "$" + v.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "M"
	case usd >= 1e3:
		return "$" + v.Div(decimal.NewFromInt(1_000)).StringFixed(0) + "k"
	default:
		return "$" + v.StringFixed(0)
	}
}
