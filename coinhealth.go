// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/cli"
	"coinhealth-api/internal/config"
	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/handler"
	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

var configFile = flag.String("f", "etc/coinhealth.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cli.LogConfigSummary(cfg)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()

	httpx.SetErrorHandlerCtx(func(ctx context.Context, err error) (int, interface{}) {
		status, message := errs.Classify(err)
		return status, types.MessageResp{Message: message}
	})

	ctx := svc.NewServiceContext(*cfg)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
