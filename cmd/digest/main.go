// Command digest sends the email summary to every subscriber. Intended to run
// from cron; a dry run prints the rendered bodies without sending.
package main

import (
	"context"
	"flag"
	"log"

	"coinhealth-api/internal/config"
	"coinhealth-api/internal/digest"
	"coinhealth-api/internal/svc"
)

var (
	configFile = flag.String("f", "etc/coinhealth.yaml", "the config file")
	dryRun     = flag.Bool("dry-run", false, "render digests without sending")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime)
	log.Println("[digest] starting digest run...")

	cfg := config.MustLoad(*configFile)
	svcCtx := svc.NewServiceContext(*cfg)
	ctx := context.Background()

	subs, err := svcCtx.SubscribersModel.List(ctx)
	if err != nil {
		log.Fatalf("[digest] failed to list subscribers: %v", err)
	}
	if len(subs) == 0 {
		log.Println("[digest] no subscribers, nothing to do")
		return
	}

	overrides, err := svcCtx.SettingsModel.All(ctx)
	if err != nil {
		log.Printf("[digest] failed to load settings overrides: %v", err)
		overrides = map[string]string{}
	}
	settings := digest.ResolveSMTP(cfg.SMTP, overrides)
	sender := digest.NewSender(settings)

	builder := digest.NewBuilder(svcCtx.Metrics, svcCtx.News, cfg.Assets.DefaultVsCurrency)
	subject := "Your crypto health digest"

	sent, failed := 0, 0
	for i := range subs {
		sub := &subs[i]
		body := builder.Build(ctx, sub.Email, sub.CoinList())

		if *dryRun {
			log.Printf("[digest] dry run for %s:\n%s", sub.Email, body)
			continue
		}
		if err := sender.Send(sub.Email, subject, body); err != nil {
			log.Printf("[digest] %v", err)
			failed++
			continue
		}
		log.Printf("[digest] sent to %s", sub.Email)
		sent++
	}

	log.Printf("[digest] done: %d sent, %d failed", sent, failed)
}
