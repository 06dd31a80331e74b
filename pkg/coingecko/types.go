package coingecko

// MarketSnapshot is one row of the /coins/markets response. Fields that the
// API reports as null decode to their zero value; consumers treat zero as
// "unknown" where that matters (high/low/current price).
type MarketSnapshot struct {
	ID                          string     `json:"id"`
	Symbol                      string     `json:"symbol"`
	Name                        string     `json:"name"`
	Image                       string     `json:"image,omitempty"`
	CurrentPrice                float64    `json:"current_price"`
	MarketCap                   float64    `json:"market_cap"`
	MarketCapRank               int        `json:"market_cap_rank,omitempty"`
	TotalVolume                 float64    `json:"total_volume"`
	High24h                     float64    `json:"high_24h"`
	Low24h                      float64    `json:"low_24h"`
	PriceChange24h              float64    `json:"price_change_24h"`
	PriceChangePct24h           float64    `json:"price_change_percentage_24h"`
	PriceChangePct1hInCurrency  float64    `json:"price_change_percentage_1h_in_currency"`
	PriceChangePct24hInCurrency float64    `json:"price_change_percentage_24h_in_currency"`
	PriceChangePct7dInCurrency  float64    `json:"price_change_percentage_7d_in_currency"`
	PriceChangePct30dInCurrency float64    `json:"price_change_percentage_30d_in_currency"`
	PriceChangePct1yInCurrency  float64    `json:"price_change_percentage_1y_in_currency"`
	Sparkline7d                 *Sparkline `json:"sparkline_in_7d,omitempty"`
	LastUpdated                 string     `json:"last_updated,omitempty"`
}

// Sparkline holds the ordered 7-day price samples.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// CoinDetail is the enrichment payload from /coins/{id}. Every block may be
// absent; callers must handle nil explicitly rather than assuming zeros.
type CoinDetail struct {
	ID            string            `json:"id"`
	MarketData    *DetailMarketData `json:"market_data,omitempty"`
	DeveloperData *DeveloperData    `json:"developer_data,omitempty"`
	CommunityData *CommunityData    `json:"community_data,omitempty"`
}

// DetailMarketData carries the slow-window change percentages. Pointers
// distinguish "field missing/null" from a genuine zero.
type DetailMarketData struct {
	PriceChangePct7d  *float64 `json:"price_change_percentage_7d,omitempty"`
	PriceChangePct30d *float64 `json:"price_change_percentage_30d,omitempty"`
}

// DeveloperData summarises repository activity.
type DeveloperData struct {
	Stars              float64 `json:"stars"`
	Forks              float64 `json:"forks"`
	CommitCount4Weeks  float64 `json:"commit_count_4_weeks"`
	PullRequestsMerged float64 `json:"pull_requests_merged"`
}

// CommunityData summarises social reach.
type CommunityData struct {
	TwitterFollowers  float64 `json:"twitter_followers"`
	RedditSubscribers float64 `json:"reddit_subscribers"`
}

// MarketChart is the /coins/{id}/market_chart response: parallel lists of
// [timestampMs, value] pairs. The lists may be misaligned or of different
// lengths; consumers default missing entries to zero.
type MarketChart struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// GlobalData wraps the /global response envelope.
type GlobalData struct {
	Data GlobalMetrics `json:"data"`
}

// GlobalMetrics carries aggregate market figures keyed by quote currency.
type GlobalMetrics struct {
	TotalMarketCap           map[string]float64 `json:"total_market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	MarketCapChangePct24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	MarketCapPercentage      map[string]float64 `json:"market_cap_percentage"`
}

// TrendingResponse is the /search/trending envelope.
type TrendingResponse struct {
	Coins []TrendingCoin `json:"coins"`
}

// TrendingCoin wraps a single trending entry.
type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

// TrendingItem is the trending entry payload.
type TrendingItem struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Score  int    `json:"score"`
}
