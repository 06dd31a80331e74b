package digest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinhealth-api/internal/cache"
	"coinhealth-api/internal/config"
	"coinhealth-api/internal/model"
	"coinhealth-api/internal/service"
	"coinhealth-api/internal/types"
	"coinhealth-api/pkg/coingecko"
)

func TestForecastChangePct(t *testing.T) {
	t.Run("needs two samples", func(t *testing.T) {
		_, ok := ForecastChangePct(nil)
		assert.False(t, ok)
		_, ok = ForecastChangePct([]types.HistoryPoint{{Timestamp: 1, Price: 10}})
		assert.False(t, ok)
	})

	t.Run("last versus previous", func(t *testing.T) {
		got, ok := ForecastChangePct([]types.HistoryPoint{
			{Timestamp: 1000, Price: 100},
			{Timestamp: 2000, Price: 110},
		})
		require.True(t, ok)
		assert.InDelta(t, 10.0, got, 1e-9)
	})

	t.Run("orders by timestamp", func(t *testing.T) {
		got, ok := ForecastChangePct([]types.HistoryPoint{
			{Timestamp: 2000, Price: 110},
			{Timestamp: 1000, Price: 100},
		})
		require.True(t, ok)
		assert.InDelta(t, 10.0, got, 1e-9, "unsorted input must not flip the sign")
	})

	t.Run("zero previous price", func(t *testing.T) {
		_, ok := ForecastChangePct([]types.HistoryPoint{
			{Timestamp: 1000, Price: 0},
			{Timestamp: 2000, Price: 10},
		})
		assert.False(t, ok)
	})
}

func TestResolveSMTP_OverridesLayerOverConfig(t *testing.T) {
	base := config.SMTPConf{
		Host: "smtp.file.example", Port: 587,
		Username: "file-user", FromEmail: "digest@file.example",
		Enabled: false,
	}
	overrides := map[string]string{
		"SMTP_HOST":     "smtp.db.example",
		"SMTP_PORT":     "2525",
		"EMAIL_ENABLED": "true",
		"SMTP_PASSWORD": "",
	}

	got := ResolveSMTP(base, overrides)
	assert.Equal(t, "smtp.db.example", got.Host, "db value wins")
	assert.Equal(t, 2525, got.Port)
	assert.Equal(t, "file-user", got.Username, "missing override keeps file value")
	assert.Equal(t, "digest@file.example", got.From)
	assert.True(t, got.Enabled)
}

func TestResolveSMTP_IgnoresMalformedPort(t *testing.T) {
	base := config.SMTPConf{Host: "smtp.example", Port: 587}
	got := ResolveSMTP(base, map[string]string{"SMTP_PORT": "not-a-number"})
	assert.Equal(t, 587, got.Port)
}

func TestSender_RefusesWhenDisabledOrIncomplete(t *testing.T) {
	err := NewSender(SMTPSettings{Enabled: false, Host: "h", From: "f"}).Send("a@b.c", "s", "b")
	assert.Error(t, err, "disabled delivery must refuse")

	err = NewSender(SMTPSettings{Enabled: true}).Send("a@b.c", "s", "b")
	assert.Error(t, err, "missing host and from must refuse")
}

// digestUpstream serves one deterministic coin plus history for Build tests.
type digestUpstream struct{}

func (digestUpstream) Markets(_ context.Context, ids []string, _ string, _ bool) ([]coingecko.MarketSnapshot, error) {
	out := make([]coingecko.MarketSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, coingecko.MarketSnapshot{
			ID: id, Name: "Bitcoin", Symbol: "btc",
			CurrentPrice: 64000, High24h: 65000, Low24h: 63000,
			MarketCap: 1.2e12, TotalVolume: 3e10,
			PriceChangePct24h: 1.25,
		})
	}
	return out, nil
}

func (digestUpstream) CoinDetails(context.Context, string) (*coingecko.CoinDetail, error) {
	return nil, nil
}

func (digestUpstream) MarketChart(context.Context, string, string, int) (*coingecko.MarketChart, error) {
	return &coingecko.MarketChart{
		Prices: [][]float64{{1000, 100}, {2000, 102}},
	}, nil
}

func (digestUpstream) Global(context.Context) (*coingecko.GlobalData, error) {
	return &coingecko.GlobalData{}, nil
}

func (digestUpstream) Trending(context.Context) (*coingecko.TrendingResponse, error) {
	return &coingecko.TrendingResponse{}, nil
}

type memCacheModel struct {
	mu   sync.Mutex
	rows map[string]model.ApiCache
}

func (f *memCacheModel) FindOne(_ context.Context, key string) (*model.ApiCache, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &row, nil
}

func (f *memCacheModel) Upsert(_ context.Context, key, payload string, fetchedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key] = model.ApiCache{Key: key, Payload: payload, FetchedAt: fetchedAt}
	return nil
}

func (f *memCacheModel) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, key)
	return nil
}

func (f *memCacheModel) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func TestBuilder_BuildRendersCoinAndSignal(t *testing.T) {
	newsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Data":[{"title":"Regulator approves exchange","source_info":{"name":"US Wire"}}]}`))
	}))
	defer newsSrv.Close()

	cfg := &config.Config{}
	cfg.Assets.DefaultVsCurrency = "usd"
	cfg.Assets.MaxCoinsPerRequest = 12
	cfg.Cache.DurableMaxAgeSeconds = 3600
	cfg.Timeframes = map[string]int{"7D": 7}

	store := cache.NewStore(&memCacheModel{rows: map[string]model.ApiCache{}})
	metrics := service.NewMetrics(digestUpstream{}, store, cfg)
	news := service.NewNews(newsSrv.URL, time.Second, nil)

	builder := NewBuilder(metrics, news, "usd")
	body := builder.Build(context.Background(), "sub@example.com", []string{"bitcoin"})

	assert.Contains(t, body, "Hello sub@example.com")
	assert.Contains(t, body, "Bitcoin (BTC)")
	assert.Contains(t, body, "Price: 64000.00 USD (24h up 1.25%)")
	assert.Contains(t, body, "Next-day signal: +2.00%")
	assert.Contains(t, body, "Policy headlines:")
	assert.Contains(t, body, "Regulator approves exchange")
}
