package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ ApiCacheModel = (*customApiCacheModel)(nil)

// ApiCache is one durable cache row. Payload is serialized JSON; FetchedAt
// decides staleness against a caller-supplied max-age at read time.
type ApiCache struct {
	Key       string    `db:"key"`
	Payload   string    `db:"payload"`
	FetchedAt time.Time `db:"fetched_at"`
}

type (
	// ApiCacheModel is an interface to be customized, add more methods here,
	// and implement the added methods in customApiCacheModel.
	ApiCacheModel interface {
		FindOne(ctx context.Context, key string) (*ApiCache, error)
		Upsert(ctx context.Context, key, payload string, fetchedAt time.Time) error
		Delete(ctx context.Context, key string) error
		DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error)
	}

	customApiCacheModel struct {
		conn sqlx.SqlConn
	}
)

// NewApiCacheModel returns a model for the api_cache table.
func NewApiCacheModel(conn sqlx.SqlConn) ApiCacheModel {
	return &customApiCacheModel{conn: conn}
}

func (m *customApiCacheModel) FindOne(ctx context.Context, key string) (*ApiCache, error) {
	const query = `SELECT key, payload, fetched_at FROM public.api_cache WHERE key = $1 LIMIT 1`
	var row ApiCache
	err := m.conn.QueryRowCtx(ctx, &row, query, key)
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("api_cache.FindOne %s: %w", key, err)
	}
}

func (m *customApiCacheModel) Upsert(ctx context.Context, key, payload string, fetchedAt time.Time) error {
	const stmt = `
INSERT INTO public.api_cache (key, payload, fetched_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET
    payload = EXCLUDED.payload,
    fetched_at = EXCLUDED.fetched_at`
	if _, err := m.conn.ExecCtx(ctx, stmt, key, payload, fetchedAt.UTC()); err != nil {
		return fmt.Errorf("api_cache.Upsert %s: %w", key, err)
	}
	return nil
}

func (m *customApiCacheModel) Delete(ctx context.Context, key string) error {
	const stmt = `DELETE FROM public.api_cache WHERE key = $1`
	if _, err := m.conn.ExecCtx(ctx, stmt, key); err != nil {
		return fmt.Errorf("api_cache.Delete %s: %w", key, err)
	}
	return nil
}

func (m *customApiCacheModel) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	const stmt = `DELETE FROM public.api_cache WHERE fetched_at < $1`
	res, err := m.conn.ExecCtx(ctx, stmt, threshold.UTC())
	if err != nil {
		return 0, fmt.Errorf("api_cache.DeleteOlderThan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("api_cache.DeleteOlderThan rows: %w", err)
	}
	return affected, nil
}
