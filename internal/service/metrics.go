package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinhealth-api/internal/cache"
	"coinhealth-api/internal/config"
	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/types"
	"coinhealth-api/pkg/coingecko"
	"coinhealth-api/pkg/health"
)

// Upstream abstracts the market-data API so tests can substitute a fake.
// *coingecko.Client satisfies it.
type Upstream interface {
	Markets(ctx context.Context, ids []string, vsCurrency string, sparkline bool) ([]coingecko.MarketSnapshot, error)
	CoinDetails(ctx context.Context, coinID string) (*coingecko.CoinDetail, error)
	MarketChart(ctx context.Context, coinID, vsCurrency string, days int) (*coingecko.MarketChart, error)
	Global(ctx context.Context) (*coingecko.GlobalData, error)
	Trending(ctx context.Context) (*coingecko.TrendingResponse, error)
}

// Metrics orchestrates the upstream client, the durable cache tier and the
// score engine. Every operation is cache-first; upstream errors are returned
// to the caller and never written to any cache tier.
type Metrics struct {
	upstream Upstream
	store    *cache.Store

	defaultCoins      []string
	defaultVsCurrency string
	maxCoins          int
	timeframes        map[string]int
	maxAge            time.Duration
}

// NewMetrics wires the aggregation service from configuration.
func NewMetrics(upstream Upstream, store *cache.Store, c *config.Config) *Metrics {
	return &Metrics{
		upstream:          upstream,
		store:             store,
		defaultCoins:      c.Assets.DefaultCoins,
		defaultVsCurrency: c.Assets.DefaultVsCurrency,
		maxCoins:          c.Assets.MaxCoinsPerRequest,
		timeframes:        c.Timeframes,
		maxAge:            c.DurableMaxAge(),
	}
}

// CoinsWithMetrics returns snapshot+score pairs for the requested coins.
// An empty id list falls back to the configured defaults; requests beyond
// the per-call bound are rejected before any upstream traffic. When
// includeDetails is set, a failed per-coin detail fetch degrades to scoring
// without enrichment instead of failing the whole request.
func (s *Metrics) CoinsWithMetrics(ctx context.Context, ids []string, vsCurrency string, includeDetails bool) ([]types.CoinWithMetrics, error) {
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		ids = s.defaultCoins
	}
	if len(ids) == 0 {
		return nil, errs.BadRequest("at least one coin id is required")
	}
	if len(ids) > s.maxCoins {
		return nil, errs.BadRequest("a maximum of %d coins can be requested at once", s.maxCoins)
	}
	vs := s.currency(vsCurrency)

	key := cache.CoinsKey(vs, ids, includeDetails)
	return cache.GetOrCompute(ctx, s.store, key, s.maxAge, func(ctx context.Context) ([]types.CoinWithMetrics, error) {
		coins, err := s.upstream.Markets(ctx, ids, vs, true)
		if err != nil {
			return nil, err
		}

		out := make([]types.CoinWithMetrics, 0, len(coins))
		for i := range coins {
			coin := coins[i]
			var detail *coingecko.CoinDetail
			if includeDetails {
				detail, err = s.upstream.CoinDetails(ctx, coin.ID)
				if err != nil {
					var apiErr *coingecko.APIError
					if !errors.As(err, &apiErr) {
						return nil, err
					}
					logx.WithContext(ctx).Slowf("detail fetch failed for %s, scoring without enrichment: %v", coin.ID, err)
					detail = nil
				}
			}
			out = append(out, types.CoinWithMetrics{
				Coin:    coin,
				Metrics: health.Compute(&coin, detail),
			})
		}
		return out, nil
	})
}

// CoinHistory converts the upstream chart series for one coin and timeframe
// into ordered history points. The three input lists may be misaligned;
// missing market-cap or volume entries at an index default to zero.
func (s *Metrics) CoinHistory(ctx context.Context, coinID, timeframeKey, vsCurrency string) ([]types.HistoryPoint, error) {
	days, ok := s.timeframes[timeframeKey]
	if !ok {
		return nil, errs.BadRequest("invalid timeframe %q, supported: %s", timeframeKey, strings.Join(s.timeframeKeys(), ", "))
	}
	vs := s.currency(vsCurrency)

	key := cache.HistoryKey(coinID, vs, timeframeKey)
	return cache.GetOrCompute(ctx, s.store, key, s.maxAge, func(ctx context.Context) ([]types.HistoryPoint, error) {
		chart, err := s.upstream.MarketChart(ctx, coinID, vs, days)
		if err != nil {
			return nil, err
		}
		return convertChart(chart), nil
	})
}

// MarketOverview combines global aggregates and the trending list into one
// flat record. Absent upstream fields default to zero or empty.
func (s *Metrics) MarketOverview(ctx context.Context, vsCurrency string) (types.MarketOverview, error) {
	vs := s.currency(vsCurrency)

	key := cache.MarketOverviewKey(vs)
	return cache.GetOrCompute(ctx, s.store, key, s.maxAge, func(ctx context.Context) (types.MarketOverview, error) {
		global, err := s.upstream.Global(ctx)
		if err != nil {
			return types.MarketOverview{}, err
		}
		trending, err := s.upstream.Trending(ctx)
		if err != nil {
			return types.MarketOverview{}, err
		}

		dominance := global.Data.MarketCapPercentage
		if dominance == nil {
			dominance = map[string]float64{}
		}
		entries := make([]types.TrendingEntry, 0, len(trending.Coins))
		for _, coin := range trending.Coins {
			entries = append(entries, types.TrendingEntry{
				ID:     coin.Item.ID,
				Symbol: coin.Item.Symbol,
				Score:  coin.Item.Score,
			})
		}

		return types.MarketOverview{
			TotalMarketCap:     global.Data.TotalMarketCap[vs],
			TotalVolume:        global.Data.TotalVolume[vs],
			MarketCapChange24h: global.Data.MarketCapChangePct24hUSD,
			Dominance:          dominance,
			Trending:           entries,
		}, nil
	})
}

// Timeframes exposes the configured timeframe mapping.
func (s *Metrics) Timeframes() map[string]int {
	return s.timeframes
}

func (s *Metrics) currency(vsCurrency string) string {
	vs := strings.ToLower(strings.TrimSpace(vsCurrency))
	if vs == "" {
		return s.defaultVsCurrency
	}
	return vs
}

func (s *Metrics) timeframeKeys() []string {
	keys := make([]string, 0, len(s.timeframes))
	for key := range s.timeframes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// normalizeIDs trims and lowercases ids, dropping empties while preserving
// request order.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func convertChart(chart *coingecko.MarketChart) []types.HistoryPoint {
	points := make([]types.HistoryPoint, 0, len(chart.Prices))
	for idx, pricePoint := range chart.Prices {
		if len(pricePoint) < 2 {
			continue
		}
		points = append(points, types.HistoryPoint{
			Timestamp: int64(pricePoint[0]),
			Price:     pricePoint[1],
			MarketCap: valueAt(chart.MarketCaps, idx),
			Volume:    valueAt(chart.TotalVolumes, idx),
		})
	}
	return points
}

// valueAt reads series[idx][1], defaulting to 0 when the index or the value
// slot is missing.
func valueAt(series [][]float64, idx int) float64 {
	if idx < len(series) && len(series[idx]) > 1 {
		return series[idx][1]
	}
	return 0
}
