package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ SubscribersModel = (*customSubscribersModel)(nil)

// Subscriber is one digest subscription: an email plus the coin ids it tracks.
type Subscriber struct {
	Id        int64     `db:"id"`
	Email     string    `db:"email"`
	Coins     string    `db:"coins"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CoinList splits the stored comma-joined coin ids.
func (s *Subscriber) CoinList() []string {
	if s.Coins == "" {
		return nil
	}
	return strings.Split(s.Coins, ",")
}

type (
	// SubscribersModel is an interface to be customized, add more methods
	// here, and implement the added methods in customSubscribersModel.
	SubscribersModel interface {
		Upsert(ctx context.Context, email string, coins []string) error
		FindOne(ctx context.Context, email string) (*Subscriber, error)
		List(ctx context.Context) ([]Subscriber, error)
	}

	customSubscribersModel struct {
		conn sqlx.SqlConn
	}
)

// NewSubscribersModel returns a model for the subscribers table.
func NewSubscribersModel(conn sqlx.SqlConn) SubscribersModel {
	return &customSubscribersModel{conn: conn}
}

// NormalizeCoins lowercases, trims, dedupes and sorts coin ids. Used by both
// the model and request validation.
func NormalizeCoins(coins []string) []string {
	seen := make(map[string]struct{}, len(coins))
	out := make([]string, 0, len(coins))
	for _, coin := range coins {
		coin = strings.ToLower(strings.TrimSpace(coin))
		if coin == "" {
			continue
		}
		if _, ok := seen[coin]; ok {
			continue
		}
		seen[coin] = struct{}{}
		out = append(out, coin)
	}
	sort.Strings(out)
	return out
}

func (m *customSubscribersModel) Upsert(ctx context.Context, email string, coins []string) error {
	normalized := NormalizeCoins(coins)
	if len(normalized) == 0 {
		return errors.New("subscribers: at least one coin is required")
	}
	const stmt = `
INSERT INTO public.subscribers (email, coins, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (email) DO UPDATE SET
    coins = EXCLUDED.coins,
    updated_at = NOW()`
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := m.conn.ExecCtx(ctx, stmt, email, strings.Join(normalized, ",")); err != nil {
		return fmt.Errorf("subscribers.Upsert %s: %w", email, err)
	}
	return nil
}

func (m *customSubscribersModel) FindOne(ctx context.Context, email string) (*Subscriber, error) {
	const query = `SELECT id, email, coins, created_at, updated_at FROM public.subscribers WHERE email = $1 LIMIT 1`
	var row Subscriber
	err := m.conn.QueryRowCtx(ctx, &row, query, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("subscribers.FindOne: %w", err)
	}
}

func (m *customSubscribersModel) List(ctx context.Context) ([]Subscriber, error) {
	const query = `SELECT id, email, coins, created_at, updated_at FROM public.subscribers ORDER BY email`
	var rows []Subscriber
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("subscribers.List: %w", err)
	}
	return rows, nil
}
