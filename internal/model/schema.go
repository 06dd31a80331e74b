package model

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// schemaStatements create the tables this service owns. Statements are
// idempotent so EnsureSchema is safe to run at every process start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS public.api_cache (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS public.subscribers (
    id         BIGSERIAL PRIMARY KEY,
    email      TEXT UNIQUE NOT NULL,
    coins      TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS public.app_settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`,
}

// EnsureSchema creates missing tables.
func EnsureSchema(ctx context.Context, conn sqlx.SqlConn) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.ExecCtx(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
