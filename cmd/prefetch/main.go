// Command prefetch warms both cache tiers for the configured coins so the
// first dashboard load after a deploy hits warm data.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"coinhealth-api/internal/cli"
	"coinhealth-api/internal/config"
	"coinhealth-api/internal/svc"
	"coinhealth-api/pkg/coingecko"
)

var (
	configFile = flag.String("f", "etc/coinhealth.yaml", "the config file")
	coinsFlag  = flag.String("coins", "", "comma-separated coin ids (defaults to configured coins)")
	vsFlag     = flag.String("vs", "", "quote currency (defaults to configured currency)")
	tfFlag     = flag.String("timeframes", "7D,30D", "comma-separated history timeframes to warm")
	sleepFlag  = flag.Duration("sleep", 1500*time.Millisecond, "pause between upstream calls")
)

const callAttempts = 3

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime)
	log.Println("[prefetch] starting cache warm-up...")

	cfg := config.MustLoad(*configFile)
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	svcCtx := svc.NewServiceContext(*cfg)
	ctx := context.Background()

	coins := cfg.Assets.DefaultCoins
	if *coinsFlag != "" {
		coins = splitList(*coinsFlag)
	}
	vs := cfg.Assets.DefaultVsCurrency
	if *vsFlag != "" {
		vs = strings.ToLower(strings.TrimSpace(*vsFlag))
	}
	timeframes := splitList(*tfFlag)

	log.Printf("[prefetch] coins=%v vs=%s timeframes=%v", coins, vs, timeframes)

	warmed, failed := 0, 0
	call := func(name string, fn func() error) {
		if err := safeCall(fn); err != nil {
			log.Printf("[prefetch] %s failed: %v", name, err)
			failed++
		} else {
			log.Printf("[prefetch] %s ok", name)
			warmed++
		}
		time.Sleep(*sleepFlag)
	}

	call("coins+metrics", func() error {
		_, err := svcCtx.Metrics.CoinsWithMetrics(ctx, coins, vs, true)
		return err
	})
	for _, coin := range coins {
		for _, tf := range timeframes {
			coin, tf := coin, tf
			call("history "+coin+"/"+tf, func() error {
				_, err := svcCtx.Metrics.CoinHistory(ctx, coin, tf, vs)
				return err
			})
		}
	}
	call("market overview", func() error {
		_, err := svcCtx.Metrics.MarketOverview(ctx, vs)
		return err
	})

	log.Printf("[prefetch] done: %d warmed, %d failed", warmed, failed)
}

// safeCall retries a warm-up call a few times, backing off harder when the
// upstream signals rate limiting.
func safeCall(fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= callAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == callAttempts {
			break
		}
		delay := time.Second
		var apiErr *coingecko.APIError
		if errors.As(lastErr, &apiErr) && apiErr.Status == 429 {
			delay = time.Duration(attempt) * 2 * time.Second
		}
		time.Sleep(delay)
	}
	return lastErr
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
