package service

import (
	"time"

	"coinhealth-api/internal/types"
	"coinhealth-api/pkg/coingecko"
)

const nfpCacheKey = "nfp-series"

// nfpSeries is a static sample series; a real data source can replace it
// without changing the API shape.
var nfpSeries = []types.NfpPoint{
	{Month: "2024-10", Actual: 150, Forecast: 120, Previous: 170},
	{Month: "2024-09", Actual: 170, Forecast: 160, Previous: 180},
	{Month: "2024-08", Actual: 187, Forecast: 175, Previous: 157},
	{Month: "2024-07", Actual: 157, Forecast: 180, Previous: 158},
	{Month: "2024-06", Actual: 206, Forecast: 190, Previous: 218},
}

// Macro serves macroeconomic context series.
type Macro struct {
	cache coingecko.MemoryCache
	now   func() time.Time
}

// NewMacro builds the macro service. cache may be nil.
func NewMacro(memCache coingecko.MemoryCache) *Macro {
	return &Macro{cache: memCache, now: time.Now}
}

// NfpSeries returns the non-farm payroll series with an update stamp.
func (s *Macro) NfpSeries() types.NfpSeries {
	build := func() (interface{}, error) {
		return types.NfpSeries{
			UpdatedAt: s.now().UTC().Format(time.RFC3339),
			Items:     nfpSeries,
		}, nil
	}
	if s.cache == nil {
		v, _ := build()
		return v.(types.NfpSeries)
	}
	v, err := s.cache.Take(nfpCacheKey, build)
	if err != nil {
		fallback, _ := build()
		return fallback.(types.NfpSeries)
	}
	return v.(types.NfpSeries)
}
