package types

import (
	"coinhealth-api/pkg/coingecko"
	"coinhealth-api/pkg/health"
)

// CoinWithMetrics pairs one market snapshot with its derived scores.
type CoinWithMetrics struct {
	Coin    coingecko.MarketSnapshot `json:"coin"`
	Metrics health.Scores            `json:"metrics"`
}

// HistoryPoint is one sample of a coin's price history. Missing market-cap or
// volume entries at an index default to zero.
type HistoryPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"marketCap"`
	Volume    float64 `json:"volume"`
}

// MarketOverview flattens global aggregates and the trending list.
type MarketOverview struct {
	TotalMarketCap     float64            `json:"totalMarketCap"`
	TotalVolume        float64            `json:"totalVolume"`
	MarketCapChange24h float64            `json:"marketCapChange24h"`
	Dominance          map[string]float64 `json:"dominance"`
	Trending           []TrendingEntry    `json:"trending"`
}

// TrendingEntry is one trending coin in the overview.
type TrendingEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Score  int    `json:"score"`
}

// NewsItem is one classified policy/regulation headline.
type NewsItem struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Region      string `json:"region"`
	Impact      string `json:"impact"`
	PublishedAt string `json:"publishedAt"`
}

// NfpSeries is the non-farm payroll macro series.
type NfpSeries struct {
	UpdatedAt string     `json:"updatedAt"`
	Items     []NfpPoint `json:"items"`
}

// NfpPoint is one monthly NFP reading, in thousands of jobs.
type NfpPoint struct {
	Month    string  `json:"month"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast"`
	Previous float64 `json:"previous"`
}

type CoinsReq struct {
	Ids            string `form:"ids,optional"`
	VsCurrency     string `form:"vs_currency,optional"`
	IncludeDetails bool   `form:"include_details,default=true"`
}

type HistoryReq struct {
	CoinID     string `path:"id"`
	Timeframe  string `form:"timeframe,default=30D"`
	VsCurrency string `form:"vs_currency,optional"`
}

type OverviewReq struct {
	VsCurrency string `form:"vs_currency,optional"`
}

type SubscribeReq struct {
	Email string   `json:"email"`
	Coins []string `json:"coins"`
}

type AdminLoginReq struct {
	Password string `json:"password"`
}

type AdminLoginResp struct {
	Token string `json:"token"`
}

type SubscriberView struct {
	Email     string   `json:"email"`
	Coins     []string `json:"coins"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type SettingsUpdateReq struct {
	Entries map[string]string `json:"entries"`
}

type HealthResp struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

// MessageResp is the uniform error/ack envelope.
type MessageResp struct {
	Message string `json:"message"`
}
