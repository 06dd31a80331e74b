package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.coingecko.com/api/v3"
	defaultHTTPTimeout = 12 * time.Second
)

// defaultRetryDelays is the fixed attempt schedule: an immediate first try,
// then two retries after 1s and 3s. Only 429 and transport failures retry.
var defaultRetryDelays = []time.Duration{0, time.Second, 3 * time.Second}

// MemoryCache is the in-process cache tier used to dampen rapid repeat calls.
// go-zero's collection.Cache satisfies it directly. Take must invoke fetch on
// a miss and cache only successful results.
type MemoryCache interface {
	Take(key string, fetch func() (interface{}, error)) (interface{}, error)
}

// Client wraps access to the CoinGecko v3 API with bounded retries.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryDelays []time.Duration
	cache       MemoryCache
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout overrides the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetryDelays replaces the attempt schedule. The slice length is the
// total attempt budget; each element is the delay before that attempt.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		if len(delays) > 0 {
			c.retryDelays = delays
		}
	}
}

// WithMemoryCache shares an in-process cache across fetch helpers so repeat
// calls within the TTL never reach the network.
func WithMemoryCache(cache MemoryCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient constructs a CoinGecko API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
		retryDelays: defaultRetryDelays,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// doRequest issues a GET and decodes the JSON response into result. A 429
// consumes the next slot in the retry schedule; any other non-2xx status is
// terminal. Transport errors retry on the same schedule and surface as a 502
// once attempts are exhausted.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	for attempt, delay := range c.retryDelays {
		last := attempt == len(c.retryDelays)-1
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("coingecko: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if last {
				return newAPIError(http.StatusBadGateway, "coingecko request failed: %v", err)
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			if last {
				return newAPIError(http.StatusBadGateway, "coingecko: read response: %v", readErr)
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests && !last {
			// Rate limited; spend the next backoff slot.
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return newAPIError(resp.StatusCode, "coingecko api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return newAPIError(http.StatusBadGateway, "coingecko: decode response: %v", err)
			}
		}
		return nil
	}
	return newAPIError(http.StatusBadGateway, "coingecko request failed without error detail")
}

// takeCached routes a fetch through the shared memory tier when one is
// configured. Errors are never cached.
func takeCached[T any](c *Client, key string, fetch func() (T, error)) (T, error) {
	if c.cache == nil {
		return fetch()
	}
	v, err := c.cache.Take(key, func() (interface{}, error) {
		return fetch()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Markets fetches market snapshots for the given coin ids in one batched call.
func (c *Client) Markets(ctx context.Context, ids []string, vsCurrency string, sparkline bool) ([]MarketSnapshot, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	key := fmt.Sprintf("markets:%s:%s:sparkline:%t", vsCurrency, strings.Join(sorted, ","), sparkline)

	return takeCached(c, key, func() ([]MarketSnapshot, error) {
		params := url.Values{}
		params.Set("vs_currency", vsCurrency)
		params.Set("ids", strings.Join(ids, ","))
		params.Set("sparkline", strconv.FormatBool(sparkline))
		params.Set("price_change_percentage", "1h,24h,7d,30d,1y")
		params.Set("precision", "6")

		var out []MarketSnapshot
		if err := c.doRequest(ctx, "/coins/markets", params, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// MarketChart fetches the price/market-cap/volume time series for one coin.
// Day counts of one or less use hourly granularity, daily otherwise.
func (c *Client) MarketChart(ctx context.Context, coinID, vsCurrency string, days int) (*MarketChart, error) {
	key := fmt.Sprintf("market-chart:%s:%s:%d", coinID, vsCurrency, days)

	return takeCached(c, key, func() (*MarketChart, error) {
		interval := "daily"
		if days <= 1 {
			interval = "hourly"
		}
		params := url.Values{}
		params.Set("vs_currency", vsCurrency)
		params.Set("days", strconv.Itoa(days))
		params.Set("interval", interval)

		var out MarketChart
		if err := c.doRequest(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Global fetches aggregate market figures.
func (c *Client) Global(ctx context.Context) (*GlobalData, error) {
	return takeCached(c, "global", func() (*GlobalData, error) {
		var out GlobalData
		if err := c.doRequest(ctx, "/global", nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Trending fetches the current trending coin list.
func (c *Client) Trending(ctx context.Context) (*TrendingResponse, error) {
	return takeCached(c, "trending", func() (*TrendingResponse, error) {
		var out TrendingResponse
		if err := c.doRequest(ctx, "/search/trending", nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CoinDetails fetches the developer/community enrichment for one coin.
func (c *Client) CoinDetails(ctx context.Context, coinID string) (*CoinDetail, error) {
	key := "coin-details:" + coinID

	return takeCached(c, key, func() (*CoinDetail, error) {
		params := url.Values{}
		params.Set("localization", "false")
		params.Set("tickers", "false")
		params.Set("market_data", "true")
		params.Set("community_data", "true")
		params.Set("developer_data", "true")
		params.Set("sparkline", "false")

		var out CoinDetail
		if err := c.doRequest(ctx, "/coins/"+url.PathEscape(coinID), params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
