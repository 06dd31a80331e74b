package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coinhealth-api/pkg/coingecko"
)

func TestScale(t *testing.T) {
	assert.Equal(t, 0.0, Scale(5, 10, 10), "degenerate range should yield 0")
	assert.Equal(t, 0.0, Scale(-5, 0, 10), "below range clamps to 0")
	assert.Equal(t, 1.0, Scale(15, 0, 10), "above range clamps to 1")
	assert.Equal(t, 0.5, Scale(5, 0, 10), "midpoint maps to 0.5")

	// monotonic over the range
	prev := -1.0
	for v := 0.0; v <= 10; v++ {
		got := Scale(v, 0, 10)
		assert.GreaterOrEqual(t, got, prev, "Scale should be non-decreasing")
		prev = got
	}
}

func TestClampAndSafeRatio(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 100), "clamp below")
	assert.Equal(t, 100.0, Clamp(250, 0, 100), "clamp above")
	assert.Equal(t, 42.0, Clamp(42, 0, 100), "in-range passthrough")
	assert.Equal(t, 0.0, SafeRatio(7, 0), "zero denominator yields 0")
	assert.Equal(t, 0.5, SafeRatio(1, 2), "normal division")
}

func TestCompute_ReferenceCoin(t *testing.T) {
	coin := &coingecko.MarketSnapshot{
		CurrentPrice: 100,
		High24h:      110,
		Low24h:       90,
		MarketCap:    1000,
		TotalVolume:  500,
	}

	scores := Compute(coin, nil)

	// range 20 over price 100 lands at 0.2 on the 0..0.25 scale
	assert.InDelta(t, 20.0, scores.VolatilityScore, 1e-9, "volatility")
	assert.InDelta(t, 50.0, scores.LiquidityScore, 1e-9, "liquidity")
	// flat 24h change with no enrichment centres momentum
	assert.InDelta(t, 50.0, scores.MomentumScore, 1e-9, "momentum")
	// defaults 50 dev / 40 community blend into the exposed score
	assert.InDelta(t, 66.0/1.4, scores.DevelopmentScore, 1e-9, "development")
	assert.InDelta(t, 43.0, scores.HealthScore, 1e-9, "health composite")
}

func TestCompute_VolatilityFallsBackToPctChange(t *testing.T) {
	coin := &coingecko.MarketSnapshot{
		CurrentPrice:      100,
		PriceChangePct24h: -12.5,
	}
	scores := Compute(coin, nil)
	// |−12.5|/100 = 0.125 on the 0..0.25 scale
	assert.InDelta(t, 50.0, scores.VolatilityScore, 1e-9, "volatility from pct change")
}

func TestCompute_ZeroSparklineBaseLeavesWeeklyTermFlat(t *testing.T) {
	pct30 := 40.0
	detail := &coingecko.CoinDetail{
		MarketData: &coingecko.DetailMarketData{PriceChangePct30d: &pct30},
	}
	coin := &coingecko.MarketSnapshot{
		CurrentPrice:      100,
		PriceChangePct24h: 10,
		Sparkline7d:       &coingecko.Sparkline{Price: []float64{0, 50, 100}},
	}

	scores := Compute(coin, detail)

	// the zero first sample keeps the 7d term at 0, even though detail data
	// carries a usable value
	composite := (10*0.35 + 0*0.4 + 40*0.25) / 3.0
	want := Clamp(Scale(composite, -20, 20)*100, 0, 100)
	assert.InDelta(t, want, scores.MomentumScore, 1e-9, "momentum with zero sparkline base")
}

func TestCompute_SparklineMomentum(t *testing.T) {
	coin := &coingecko.MarketSnapshot{
		CurrentPrice:      100,
		PriceChangePct24h: 10,
		Sparkline7d:       &coingecko.Sparkline{Price: []float64{80, 85, 100}},
	}

	scores := Compute(coin, nil)

	change7d := (100.0 - 80.0) / 80.0 * 100
	change30d := 10 * 1.6
	composite := (10*0.35 + change7d*0.4 + change30d*0.25) / 3.0
	want := Clamp(Scale(composite, -20, 20)*100, 0, 100)
	assert.InDelta(t, want, scores.MomentumScore, 1e-9, "momentum from sparkline base")
}

func TestCompute_ActivityFromDetail(t *testing.T) {
	detail := &coingecko.CoinDetail{
		DeveloperData: &coingecko.DeveloperData{
			Stars: 500, Forks: 300, CommitCount4Weeks: 400, PullRequestsMerged: 100,
		},
		CommunityData: &coingecko.CommunityData{
			TwitterFollowers: 1_000_000, RedditSubscribers: 250_000,
		},
	}
	coin := &coingecko.MarketSnapshot{CurrentPrice: 100, High24h: 110, Low24h: 90}

	scores := Compute(coin, detail)

	// weighted dev activity 340 on the 0..500 scale, community saturates
	want := Clamp((68.0+100.0*0.4)/1.4, 0, 100)
	assert.InDelta(t, want, scores.DevelopmentScore, 1e-9, "development from detail")
}

func TestCompute_ScoresAreBounded(t *testing.T) {
	coin := &coingecko.MarketSnapshot{
		CurrentPrice:      0.0001,
		High24h:           10,
		Low24h:            0.00001,
		MarketCap:         1,
		TotalVolume:       1e12,
		PriceChangePct24h: 5000,
	}
	scores := Compute(coin, nil)

	for name, v := range map[string]float64{
		"health":      scores.HealthScore,
		"volatility":  scores.VolatilityScore,
		"liquidity":   scores.LiquidityScore,
		"momentum":    scores.MomentumScore,
		"development": scores.DevelopmentScore,
	} {
		assert.GreaterOrEqual(t, v, 0.0, "%s lower bound", name)
		assert.LessOrEqual(t, v, 100.0, "%s upper bound", name)
	}
}
