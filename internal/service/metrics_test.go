package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinhealth-api/internal/cache"
	"coinhealth-api/internal/config"
	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/model"
	"coinhealth-api/pkg/coingecko"
)

// fakeUpstream counts calls and serves canned responses.
type fakeUpstream struct {
	mu sync.Mutex

	marketsCalls  int
	detailsCalls  int
	chartCalls    int
	globalCalls   int
	trendingCalls int

	markets     []coingecko.MarketSnapshot
	marketsErr  error
	details     map[string]*coingecko.CoinDetail
	detailsErr  error
	chart       *coingecko.MarketChart
	chartErr    error
	global      *coingecko.GlobalData
	trending    *coingecko.TrendingResponse
	trendingErr error
}

func (f *fakeUpstream) Markets(_ context.Context, ids []string, _ string, _ bool) ([]coingecko.MarketSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marketsCalls++
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	if f.markets != nil {
		return f.markets, nil
	}
	out := make([]coingecko.MarketSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, coingecko.MarketSnapshot{ID: id, CurrentPrice: 100, High24h: 110, Low24h: 90})
	}
	return out, nil
}

func (f *fakeUpstream) CoinDetails(_ context.Context, coinID string) (*coingecko.CoinDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details[coinID], nil
}

func (f *fakeUpstream) MarketChart(_ context.Context, _, _ string, _ int) (*coingecko.MarketChart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chartCalls++
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	return f.chart, nil
}

func (f *fakeUpstream) Global(context.Context) (*coingecko.GlobalData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalCalls++
	return f.global, nil
}

func (f *fakeUpstream) Trending(context.Context) (*coingecko.TrendingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendingCalls++
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return f.trending, nil
}

func (f *fakeUpstream) calls() (markets, details int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.marketsCalls, f.detailsCalls
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assets.DefaultCoins = []string{"bitcoin", "ethereum"}
	cfg.Assets.DefaultVsCurrency = "usd"
	cfg.Assets.MaxCoinsPerRequest = 3
	cfg.Cache.DurableMaxAgeSeconds = 3600
	cfg.Timeframes = map[string]int{"1D": 1, "7D": 7, "30D": 30}
	return cfg
}

func newTestMetrics(upstream Upstream) (*Metrics, *fakeCacheModel) {
	fake := newFakeCacheModel()
	return NewMetrics(upstream, cache.NewStore(fake), testConfig()), fake
}

// fakeCacheModel mirrors the api_cache table for service-level tests.
type fakeCacheModel struct {
	mu   sync.Mutex
	rows map[string]model.ApiCache
}

func newFakeCacheModel() *fakeCacheModel {
	return &fakeCacheModel{rows: make(map[string]model.ApiCache)}
}

func (f *fakeCacheModel) FindOne(_ context.Context, key string) (*model.ApiCache, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &row, nil
}

func (f *fakeCacheModel) Upsert(_ context.Context, key, payload string, fetchedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key] = model.ApiCache{Key: key, Payload: payload, FetchedAt: fetchedAt}
	return nil
}

func (f *fakeCacheModel) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, key)
	return nil
}

func (f *fakeCacheModel) DeleteOlderThan(_ context.Context, threshold time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key, row := range f.rows {
		if row.FetchedAt.Before(threshold) {
			delete(f.rows, key)
			n++
		}
	}
	return n, nil
}

func TestCoinsWithMetrics_ValidationBeforeUpstream(t *testing.T) {
	upstream := &fakeUpstream{}
	metrics, _ := newTestMetrics(upstream)
	ctx := context.Background()

	t.Run("over limit", func(t *testing.T) {
		_, err := metrics.CoinsWithMetrics(ctx, []string{"a", "b", "c", "d"}, "usd", false)
		require.Error(t, err)
		httpErr, ok := err.(*errs.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	})

	t.Run("no ids and no defaults", func(t *testing.T) {
		cfg := testConfig()
		cfg.Assets.DefaultCoins = nil
		bare := NewMetrics(upstream, cache.NewStore(newFakeCacheModel()), cfg)
		_, err := bare.CoinsWithMetrics(ctx, nil, "usd", false)
		require.Error(t, err)
		httpErr, ok := err.(*errs.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	})

	markets, details := upstream.calls()
	assert.Zero(t, markets, "rejected requests must not reach upstream")
	assert.Zero(t, details)
}

func TestCoinsWithMetrics_DefaultsAndScoring(t *testing.T) {
	upstream := &fakeUpstream{}
	metrics, _ := newTestMetrics(upstream)

	items, err := metrics.CoinsWithMetrics(context.Background(), nil, "", false)
	require.NoError(t, err)
	require.Len(t, items, 2, "empty ids fall back to configured defaults")
	assert.Equal(t, "bitcoin", items[0].Coin.ID)
	assert.Equal(t, "ethereum", items[1].Coin.ID)
	assert.Greater(t, items[0].Metrics.HealthScore, 0.0, "scores should be computed")
}

func TestCoinsWithMetrics_SecondCallServedFromCache(t *testing.T) {
	upstream := &fakeUpstream{}
	metrics, _ := newTestMetrics(upstream)
	ctx := context.Background()

	_, err := metrics.CoinsWithMetrics(ctx, []string{"bitcoin"}, "usd", false)
	require.NoError(t, err)
	_, err = metrics.CoinsWithMetrics(ctx, []string{"Bitcoin "}, "usd", false)
	require.NoError(t, err)

	markets, _ := upstream.calls()
	assert.Equal(t, 1, markets, "normalized repeat requests should hit the durable cache")
}

func TestCoinsWithMetrics_DetailFailureDegrades(t *testing.T) {
	upstream := &fakeUpstream{
		detailsErr: &coingecko.APIError{Status: http.StatusTooManyRequests, Message: "rate limited"},
	}
	metrics, _ := newTestMetrics(upstream)

	items, err := metrics.CoinsWithMetrics(context.Background(), []string{"bitcoin"}, "usd", true)
	require.NoError(t, err, "detail failures must not fail the batch")
	require.Len(t, items, 1)
	// defaults 50 dev / 40 community apply when enrichment is unavailable
	assert.InDelta(t, 66.0/1.4, items[0].Metrics.DevelopmentScore, 1e-9)
}

func TestCoinsWithMetrics_UpstreamErrorPropagatesUncached(t *testing.T) {
	upstream := &fakeUpstream{
		marketsErr: &coingecko.APIError{Status: http.StatusBadGateway, Message: "down"},
	}
	metrics, fake := newTestMetrics(upstream)

	_, err := metrics.CoinsWithMetrics(context.Background(), []string{"bitcoin"}, "usd", false)
	require.Error(t, err)
	assert.Empty(t, fake.rows, "errors must not be cached")

	upstream.mu.Lock()
	upstream.marketsErr = nil
	upstream.mu.Unlock()

	items, err := metrics.CoinsWithMetrics(context.Background(), []string{"bitcoin"}, "usd", false)
	require.NoError(t, err, "recovery should refetch")
	assert.Len(t, items, 1)
}

func TestCoinHistory_UnknownTimeframe(t *testing.T) {
	upstream := &fakeUpstream{}
	metrics, _ := newTestMetrics(upstream)

	_, err := metrics.CoinHistory(context.Background(), "bitcoin", "2W", "usd")
	require.Error(t, err)
	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Contains(t, httpErr.Message, "1D, 30D, 7D", "message should list supported keys sorted")
	assert.Zero(t, upstream.chartCalls, "invalid timeframe must not reach upstream")
}

func TestCoinHistory_MisalignedSeriesDefaultToZero(t *testing.T) {
	upstream := &fakeUpstream{
		chart: &coingecko.MarketChart{
			Prices:       [][]float64{{1000, 10}, {2000, 12}},
			MarketCaps:   [][]float64{{1000, 500}},
			TotalVolumes: [][]float64{},
		},
	}
	metrics, _ := newTestMetrics(upstream)

	points, err := metrics.CoinHistory(context.Background(), "bitcoin", "7D", "usd")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, int64(1000), points[0].Timestamp)
	assert.Equal(t, 10.0, points[0].Price)
	assert.Equal(t, 500.0, points[0].MarketCap)
	assert.Equal(t, 0.0, points[0].Volume, "missing volume defaults to zero")

	assert.Equal(t, 0.0, points[1].MarketCap, "missing market cap defaults to zero")
	assert.Equal(t, 0.0, points[1].Volume)
}

func TestMarketOverview_FlattensGlobalAndTrending(t *testing.T) {
	upstream := &fakeUpstream{
		global: &coingecko.GlobalData{Data: coingecko.GlobalMetrics{
			TotalMarketCap:           map[string]float64{"usd": 2.5e12},
			TotalVolume:              map[string]float64{"usd": 9e10},
			MarketCapChangePct24hUSD: -1.2,
			MarketCapPercentage:      map[string]float64{"btc": 52.1},
		}},
		trending: &coingecko.TrendingResponse{Coins: []coingecko.TrendingCoin{
			{Item: coingecko.TrendingItem{ID: "pepe", Symbol: "PEPE", Score: 0}},
			{Item: coingecko.TrendingItem{ID: "sui", Symbol: "SUI", Score: 1}},
		}},
	}
	metrics, _ := newTestMetrics(upstream)

	overview, err := metrics.MarketOverview(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, 2.5e12, overview.TotalMarketCap)
	assert.Equal(t, 9e10, overview.TotalVolume)
	assert.Equal(t, -1.2, overview.MarketCapChange24h)
	assert.Equal(t, 52.1, overview.Dominance["btc"])
	require.Len(t, overview.Trending, 2)
	assert.Equal(t, "pepe", overview.Trending[0].ID)
}

func TestMarketOverview_NilDominanceBecomesEmptyMap(t *testing.T) {
	upstream := &fakeUpstream{
		global:   &coingecko.GlobalData{},
		trending: &coingecko.TrendingResponse{},
	}
	metrics, _ := newTestMetrics(upstream)

	overview, err := metrics.MarketOverview(context.Background(), "usd")
	require.NoError(t, err)
	assert.NotNil(t, overview.Dominance, "dominance should marshal as {} not null")
	assert.Empty(t, overview.Trending)
}
