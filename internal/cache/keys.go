// Package cache owns the service's two cache tiers: the bounded in-process
// memory tier shared with the upstream client, and the durable Postgres tier
// with per-read max-age expiry. Keys are deterministic fingerprints built
// from the operation name and normalized parameters.
package cache

import (
	"sort"
	"strings"
)

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, strings.TrimSpace(part))
	}
	return strings.Join(values, ":")
}

// CoinsKey fingerprints a coins-with-metrics request. Ids are sorted so the
// same set always maps to the same entry regardless of request order.
func CoinsKey(vsCurrency string, ids []string, includeDetails bool) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	flag := "0"
	if includeDetails {
		flag = "1"
	}
	return formatKey("coins", vsCurrency, strings.Join(sorted, ","), flag)
}

// HistoryKey fingerprints one coin's history for a timeframe.
func HistoryKey(coinID, vsCurrency, timeframeKey string) string {
	return formatKey("history", coinID, vsCurrency, timeframeKey)
}

// MarketOverviewKey fingerprints the market overview for a quote currency.
func MarketOverviewKey(vsCurrency string) string {
	return formatKey("market-overview", vsCurrency)
}
