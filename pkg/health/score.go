// Package health derives composite 0-100 health scores from market snapshots
// and optional per-coin enrichment. Everything here is pure: inputs are never
// mutated and identical inputs always produce identical scores.
package health

import (
	"math"

	"coinhealth-api/pkg/coingecko"
)

// Scores is the record exposed to API consumers. All values are clamped to
// [0,100].
type Scores struct {
	HealthScore      float64 `json:"healthScore"`
	VolatilityScore  float64 `json:"volatilityScore"`
	LiquidityScore   float64 `json:"liquidityScore"`
	MomentumScore    float64 `json:"momentumScore"`
	DevelopmentScore float64 `json:"developmentScore"`
}

// Clamp bounds value to [min, max].
func Clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// Scale maps value linearly from [min, max] onto [0, 1], clamped. A
// degenerate range yields 0.
func Scale(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	return Clamp((value-min)/(max-min), 0, 1)
}

// SafeRatio divides numerator by denominator, returning 0 for a zero
// denominator.
func SafeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Compute scores one coin. detail may be nil when enrichment was unavailable;
// the development and community terms then fall back to fixed defaults
// (50 and 40) so coins without enrichment are not penalised to zero.
func Compute(coin *coingecko.MarketSnapshot, detail *coingecko.CoinDetail) Scores {
	pct24h := coin.PriceChangePct24h

	var volatilityRatio float64
	if coin.High24h != 0 && coin.Low24h != 0 && coin.CurrentPrice != 0 {
		volatilityRatio = (coin.High24h - coin.Low24h) / coin.CurrentPrice
	} else {
		volatilityRatio = math.Abs(pct24h) / 100
	}
	volatilityScore := Clamp(100-Scale(volatilityRatio, 0, 0.25)*100, 0, 100)

	liquidityRatio := SafeRatio(coin.TotalVolume, coin.MarketCap)
	liquidityScore := Clamp(Scale(liquidityRatio, 0, 1)*100, 0, 100)

	momentumScore := momentum(coin, detail, pct24h)

	developmentScore, communityScore := activityScores(detail)

	healthScore := Clamp(
		volatilityScore*0.2+
			liquidityScore*0.3+
			momentumScore*0.25+
			developmentScore*0.15+
			communityScore*0.1,
		0, 100)

	return Scores{
		HealthScore:      healthScore,
		VolatilityScore:  volatilityScore,
		LiquidityScore:   liquidityScore,
		MomentumScore:    momentumScore,
		DevelopmentScore: Clamp((developmentScore+communityScore*0.4)/1.4, 0, 100),
	}
}

// momentum blends the 24h, 7d and 30d change percentages. The 7d term comes
// from the first sparkline sample when one is present; a zero first sample
// leaves the term at 0 rather than falling back to detail data. The 30d term
// uses pct24h*1.6 as a documented approximation when detail data is missing;
// the multiplier is deliberate, do not tune it.
func momentum(coin *coingecko.MarketSnapshot, detail *coingecko.CoinDetail, pct24h float64) float64 {
	var change7d float64
	if coin.Sparkline7d != nil && len(coin.Sparkline7d.Price) > 0 {
		if base := coin.Sparkline7d.Price[0]; base != 0 {
			change7d = (coin.CurrentPrice - base) / base * 100
		}
	} else if detail != nil && detail.MarketData != nil && detail.MarketData.PriceChangePct7d != nil {
		change7d = *detail.MarketData.PriceChangePct7d
	}

	var change30d float64
	if detail != nil && detail.MarketData != nil && detail.MarketData.PriceChangePct30d != nil {
		change30d = *detail.MarketData.PriceChangePct30d
	} else {
		change30d = pct24h * 1.6
	}

	composite := (pct24h*0.35 + change7d*0.4 + change30d*0.25) / 3
	return Clamp(Scale(composite, -20, 20)*100, 0, 100)
}

// activityScores maps developer and community activity onto [0,100]. Absent
// blocks yield the fixed defaults rather than zero.
func activityScores(detail *coingecko.CoinDetail) (development, community float64) {
	development = 50
	community = 40

	if detail == nil {
		return development, community
	}

	if dev := detail.DeveloperData; dev != nil {
		weighted := dev.Stars*0.2 + dev.Forks*0.2 + dev.CommitCount4Weeks*0.4 + dev.PullRequestsMerged*0.2
		development = Clamp(Scale(weighted, 0, 500)*100, 0, 100)
	}
	if comm := detail.CommunityData; comm != nil {
		weighted := comm.TwitterFollowers*0.00002 + comm.RedditSubscribers*0.00004
		community = Clamp(Scale(weighted, 0, 30)*100, 0, 100)
	}
	return development, community
}
