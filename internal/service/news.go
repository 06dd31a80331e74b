package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinhealth-api/internal/types"
	"coinhealth-api/pkg/coingecko"
)

const (
	defaultNewsEndpoint = "https://min-api.cryptocompare.com/data/v2/news/"
	newsCacheKey        = "policy-news"
	maxNewsItems        = 6
	summaryLimit        = 240
)

// Impact labels assigned by the keyword heuristic.
const (
	ImpactBearish = "short-term bearish"
	ImpactBullish = "supportive"
	ImpactNeutral = "policy watch"
)

var negativeKeywords = []string{"ban", "halt", "crackdown", "suspend", "banlist"}
var positiveKeywords = []string{"approve", "framework", "support", "licence", "license"}

// regionRules are checked in order; the first matching substring wins.
var regionRules = []struct {
	match  string
	region string
}{
	{"asia", "Asia"},
	{"china", "China"},
	{"japan", "Japan"},
	{"us", "US"},
	{"uk", "UK"},
	{"europe", "EU"},
	{"hk", "Hong Kong"},
	{"singapore", "Singapore"},
}

// News serves classified policy/regulation headlines. Fetch failures degrade
// to a fallback placeholder rather than erroring, and results ride the shared
// memory tier so the feed is polled at most once per TTL window.
type News struct {
	endpoint   string
	httpClient *http.Client
	cache      coingecko.MemoryCache
	now        func() time.Time
}

// NewNews builds the policy news service. cache may be nil (always refetch).
func NewNews(endpoint string, timeout time.Duration, memCache coingecko.MemoryCache) *News {
	if endpoint == "" {
		endpoint = defaultNewsEndpoint
	}
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &News{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		cache:      memCache,
		now:        time.Now,
	}
}

// PolicyNews returns up to six classified headlines, or the fallback item.
func (s *News) PolicyNews(ctx context.Context) ([]types.NewsItem, error) {
	factory := func() (interface{}, error) {
		items, err := s.fetch(ctx)
		if err != nil {
			logx.WithContext(ctx).Slowf("policy news fetch failed, serving fallback: %v", err)
			return s.fallback(), nil
		}
		return items, nil
	}

	if s.cache == nil {
		v, _ := factory()
		return v.([]types.NewsItem), nil
	}
	v, err := s.cache.Take(newsCacheKey, factory)
	if err != nil {
		return s.fallback(), nil
	}
	return v.([]types.NewsItem), nil
}

type newsFeedItem struct {
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	URL         string  `json:"url"`
	PublishedOn float64 `json:"published_on"`
	SourceInfo  struct {
		Name string `json:"name"`
	} `json:"source_info"`
}

type newsFeed struct {
	Data []newsFeedItem `json:"Data"`
}

func (s *News) fetch(ctx context.Context) ([]types.NewsItem, error) {
	params := url.Values{}
	params.Set("categories", "Regulation")
	params.Set("lang", "EN")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("news: build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("news: http status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news: read response: %w", err)
	}

	var feed newsFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("news: decode response: %w", err)
	}

	items := make([]types.NewsItem, 0, maxNewsItems)
	for _, entry := range feed.Data {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		summary := entry.Body
		if len(summary) > summaryLimit {
			summary = summary[:summaryLimit]
		}
		source := entry.SourceInfo.Name
		if source == "" {
			source = "CryptoCompare"
		}
		publishedAt := s.now().UTC().Format(time.RFC3339)
		if entry.PublishedOn > 0 {
			publishedAt = time.Unix(int64(entry.PublishedOn), 0).UTC().Format(time.RFC3339)
		}
		items = append(items, types.NewsItem{
			Title:       title,
			Summary:     summary,
			Source:      source,
			URL:         entry.URL,
			Region:      MapRegion(entry.SourceInfo.Name),
			Impact:      GuessImpact(title + " " + summary),
			PublishedAt: publishedAt,
		})
		if len(items) == maxNewsItems {
			break
		}
	}
	if len(items) == 0 {
		return s.fallback(), nil
	}
	return items, nil
}

func (s *News) fallback() []types.NewsItem {
	return []types.NewsItem{{
		Title:       "No live policy data",
		Summary:     "The latest policy and regulation headlines could not be fetched; the feed refreshes automatically.",
		Source:      "Policy Feed",
		URL:         "",
		Region:      "Global",
		Impact:      ImpactNeutral,
		PublishedAt: s.now().UTC().Format(time.RFC3339),
	}}
}

// GuessImpact classifies a headline by keyword lists. Negative keywords win
// over positive ones.
func GuessImpact(text string) string {
	lower := strings.ToLower(text)
	for _, keyword := range negativeKeywords {
		if strings.Contains(lower, keyword) {
			return ImpactBearish
		}
	}
	for _, keyword := range positiveKeywords {
		if strings.Contains(lower, keyword) {
			return ImpactBullish
		}
	}
	return ImpactNeutral
}

// MapRegion derives a coarse region from the feed source name, falling back
// to the source itself, or "Global" when unnamed.
func MapRegion(sourceName string) string {
	if sourceName == "" {
		return "Global"
	}
	lowered := strings.ToLower(sourceName)
	for _, rule := range regionRules {
		if strings.Contains(lowered, rule.match) {
			return rule.region
		}
	}
	return sourceName
}
