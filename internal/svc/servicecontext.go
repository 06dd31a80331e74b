package svc

import (
	"context"
	"log"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/collection"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"coinhealth-api/internal/cache"
	"coinhealth-api/internal/config"
	"coinhealth-api/internal/model"
	"coinhealth-api/internal/service"
	"coinhealth-api/pkg/coingecko"
)

type ServiceContext struct {
	Config config.Config

	Memory   *collection.Cache
	Upstream *coingecko.Client
	Store    *cache.Store

	Metrics *service.Metrics
	News    *service.News
	Macro   *service.Macro
	Auth    *service.Auth

	DBConn           sqlx.SqlConn
	ApiCacheModel    model.ApiCacheModel
	SubscribersModel model.SubscribersModel
	SettingsModel    model.SettingsModel

	StartedAt time.Time
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config:    c,
		StartedAt: time.Now(),
	}

	memory, err := cache.NewMemory(c.MemoryTTL(), c.Cache.MemoryLimit)
	if err != nil {
		log.Fatalf("failed to init memory cache: %v", err)
	}
	svc.Memory = memory

	geckoCfg := c.Coingecko.Value
	if geckoCfg == nil {
		geckoCfg = &coingecko.Config{}
	}
	client := geckoCfg.BuildClient(coingecko.WithMemoryCache(memory))
	svc.Upstream = client

	if c.Postgres.DSN == "" {
		log.Fatalf("postgres dsn is required")
	}
	conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
	svc.DBConn = conn

	ctx := context.Background()
	if err := model.EnsureSchema(ctx, conn); err != nil {
		log.Fatalf("failed to ensure database schema: %v", err)
	}

	svc.ApiCacheModel = model.NewApiCacheModel(conn)
	svc.SubscribersModel = model.NewSubscribersModel(conn)
	svc.SettingsModel = model.NewSettingsModel(conn)

	if err := svc.SettingsModel.SeedDefaults(ctx, defaultSettings(c.SMTP)); err != nil {
		log.Fatalf("failed to seed default settings: %v", err)
	}

	svc.Store = cache.NewStore(svc.ApiCacheModel)

	// Drop stale durable entries left over from previous runs.
	if purged, err := svc.Store.PurgeOlderThan(ctx, c.DurableMaxAge()); err != nil {
		logx.Errorf("startup cache purge failed: %v", err)
	} else if purged > 0 {
		logx.Infof("startup cache purge removed %d stale entries", purged)
	}

	svc.Metrics = service.NewMetrics(client, svc.Store, &svc.Config)
	svc.News = service.NewNews(c.News.Endpoint, c.News.Timeout(), memory)
	svc.Macro = service.NewMacro(memory)
	svc.Auth = service.NewAuth(&svc.Config)

	return svc
}

func defaultSettings(smtp config.SMTPConf) map[string]string {
	enabled := "false"
	if smtp.Enabled {
		enabled = "true"
	}
	return map[string]string{
		"EMAIL_ENABLED":   enabled,
		"SMTP_HOST":       smtp.Host,
		"SMTP_PORT":       strconv.Itoa(smtp.Port),
		"SMTP_USERNAME":   smtp.Username,
		"SMTP_PASSWORD":   smtp.Password,
		"SMTP_FROM_EMAIL": smtp.FromEmail,
	}
}
