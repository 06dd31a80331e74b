package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"coinhealth-api/internal/config"
	"coinhealth-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Postgres: %s", presence(cfg.Postgres.DSN != "")),
		fmt.Sprintf("Memory cache: %ds TTL, %d entries", cfg.Cache.MemoryTTLSeconds, cfg.Cache.MemoryLimit),
		fmt.Sprintf("Durable cache max age: %ds", cfg.Cache.DurableMaxAgeSeconds),
		fmt.Sprintf("Default coins: %s", strings.Join(cfg.Assets.DefaultCoins, ", ")),
		fmt.Sprintf("Timeframes: %s", timeframeLine(cfg.Timeframes)),
		fmt.Sprintf("Admin auth: %s", presence(cfg.Admin.Password != "" && cfg.Admin.JwtSecret != "")),
		fmt.Sprintf("Email delivery: %s", presence(cfg.SMTP.Enabled)),
		sectionLine("CoinGecko config", cfg.Coingecko),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func timeframeLine(timeframes map[string]int) string {
	keys := make([]string, 0, len(timeframes))
	for key := range timeframes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%dd", key, timeframes[key]))
	}
	return strings.Join(parts, " ")
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
