// Package digest builds and delivers the subscriber email summary.
package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"coinhealth-api/internal/service"
	"coinhealth-api/internal/types"
)

// Builder renders one subscriber's plain-text digest from live metrics.
type Builder struct {
	metrics    *service.Metrics
	news       *service.News
	vsCurrency string
}

// NewBuilder wires a digest builder.
func NewBuilder(metrics *service.Metrics, news *service.News, vsCurrency string) *Builder {
	return &Builder{metrics: metrics, news: news, vsCurrency: vsCurrency}
}

// Build renders the digest body for one subscriber. A metrics failure still
// produces a body carrying the error note, so the send loop can proceed.
func (b *Builder) Build(ctx context.Context, email string, coins []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", email)
	sb.WriteString("Here is the latest summary for your subscribed coins:\n\n")

	items, err := b.metrics.CoinsWithMetrics(ctx, coins, b.vsCurrency, true)
	if err != nil {
		fmt.Fprintf(&sb, "- data fetch failed: %v\n", err)
		return sb.String()
	}

	for _, item := range items {
		coin := item.Coin
		change24h := coin.PriceChangePct24h
		direction := "up"
		if change24h < 0 {
			direction = "down"
		}
		fmt.Fprintf(&sb, "* %s (%s)\n", coin.Name, strings.ToUpper(coin.Symbol))
		fmt.Fprintf(&sb, "  Price: %.2f %s (24h %s %.2f%%)\n",
			coin.CurrentPrice, strings.ToUpper(b.vsCurrency), direction, change24h)
		fmt.Fprintf(&sb, "  Health: overall %.0f | liquidity %.0f | momentum %.0f\n",
			item.Metrics.HealthScore, item.Metrics.LiquidityScore, item.Metrics.MomentumScore)

		if history, err := b.metrics.CoinHistory(ctx, coin.ID, "7D", b.vsCurrency); err == nil {
			if forecast, ok := ForecastChangePct(history); ok {
				fmt.Fprintf(&sb, "  Next-day signal: %+.2f%%\n", forecast)
			} else {
				sb.WriteString("  Next-day signal: no data\n")
			}
		}
		sb.WriteString("\n")
	}

	if headlines, err := b.news.PolicyNews(ctx); err == nil && len(headlines) > 0 {
		sb.WriteString("Policy headlines:\n")
		for i, item := range headlines {
			if i == 3 {
				break
			}
			line := fmt.Sprintf("- [%s] %s", item.Impact, item.Title)
			if item.Region != "" {
				line += fmt.Sprintf(" (%s)", item.Region)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Sent automatically by Coin Health Intelligence. Thanks for following along!\n")
	return sb.String()
}

// ForecastChangePct derives a naive next-day signal: the percentage change
// between the last two history samples. Reports false when fewer than two
// samples exist or the previous price is zero.
func ForecastChangePct(history []types.HistoryPoint) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	ordered := append([]types.HistoryPoint(nil), history...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})
	last := ordered[len(ordered)-1].Price
	prev := ordered[len(ordered)-2].Price
	if prev == 0 {
		return 0, false
	}
	return (last - prev) / prev * 100, true
}
