package model

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ SettingsModel = (*customSettingsModel)(nil)

type (
	// SettingsModel stores runtime-editable key/value configuration, e.g.
	// SMTP overrides managed from the admin panel.
	SettingsModel interface {
		SeedDefaults(ctx context.Context, defaults map[string]string) error
		Upsert(ctx context.Context, entries map[string]string) error
		All(ctx context.Context) (map[string]string, error)
	}

	customSettingsModel struct {
		conn sqlx.SqlConn
	}
)

// NewSettingsModel returns a model for the app_settings table.
func NewSettingsModel(conn sqlx.SqlConn) SettingsModel {
	return &customSettingsModel{conn: conn}
}

// SeedDefaults inserts defaults without overwriting operator edits.
func (m *customSettingsModel) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	const stmt = `
INSERT INTO public.app_settings (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO NOTHING`
	for key, value := range defaults {
		if _, err := m.conn.ExecCtx(ctx, stmt, key, value); err != nil {
			return fmt.Errorf("app_settings.SeedDefaults %s: %w", key, err)
		}
	}
	return nil
}

func (m *customSettingsModel) Upsert(ctx context.Context, entries map[string]string) error {
	const stmt = `
INSERT INTO public.app_settings (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = NOW()`
	for key, value := range entries {
		if _, err := m.conn.ExecCtx(ctx, stmt, key, value); err != nil {
			return fmt.Errorf("app_settings.Upsert %s: %w", key, err)
		}
	}
	return nil
}

func (m *customSettingsModel) All(ctx context.Context) (map[string]string, error) {
	const query = `SELECT key, value FROM public.app_settings`
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("app_settings.All: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}
