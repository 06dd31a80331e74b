package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/syncx"

	"coinhealth-api/internal/model"
)

// Store is the durable cache tier. Reads evaluate staleness against a
// caller-supplied max-age and lazily delete expired rows; writes are upserts
// stamped with the current time. Concurrent cold-key callers are collapsed
// onto a single factory execution per key.
type Store struct {
	entries model.ApiCacheModel
	flight  syncx.SingleFlight
}

// NewStore builds a Store over the api_cache model.
func NewStore(entries model.ApiCacheModel) *Store {
	return &Store{
		entries: entries,
		flight:  syncx.NewSingleFlight(),
	}
}

// GetOrCompute returns the cached value for key when one exists and is
// younger than maxAge, otherwise invokes factory, stores its result durably
// and returns it. Factory failures propagate uncached. A payload that no
// longer unmarshals is treated as a miss and the row discarded.
func GetOrCompute[T any](ctx context.Context, s *Store, key string, maxAge time.Duration, factory func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.flight.Do(key, func() (interface{}, error) {
		if payload, ok := s.lookup(ctx, key, maxAge); ok {
			var out T
			if err := json.Unmarshal([]byte(payload), &out); err == nil {
				return out, nil
			}
			logx.WithContext(ctx).Errorf("cache: discarding malformed payload for %s", key)
			if err := s.entries.Delete(ctx, key); err != nil {
				logx.WithContext(ctx).Errorf("cache: delete %s: %v", key, err)
			}
		}

		value, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		s.write(ctx, key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// lookup fetches a row and applies the read-time expiry check. Expired rows
// are deleted so they cannot resurrect on later reads.
func (s *Store) lookup(ctx context.Context, key string, maxAge time.Duration) (string, bool) {
	row, err := s.entries.FindOne(ctx, key)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logx.WithContext(ctx).Errorf("cache: read %s: %v", key, err)
		}
		return "", false
	}
	if time.Since(row.FetchedAt) > maxAge {
		if err := s.entries.Delete(ctx, key); err != nil {
			logx.WithContext(ctx).Errorf("cache: delete expired %s: %v", key, err)
		}
		return "", false
	}
	return row.Payload, true
}

// write persists a freshly computed value. A failed write is logged but does
// not fail the request; the value is already in hand.
func (s *Store) write(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache: marshal %s: %v", key, err)
		return
	}
	if err := s.entries.Upsert(ctx, key, string(payload), time.Now()); err != nil {
		logx.WithContext(ctx).Errorf("cache: write %s: %v", key, err)
	}
}

// PurgeOlderThan deletes every durable entry older than maxAge. Run at
// process start to bound storage growth.
func (s *Store) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.entries.DeleteOlderThan(ctx, time.Now().Add(-maxAge))
}
