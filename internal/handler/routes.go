// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"coinhealth-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/coins",
				Handler: CoinsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/coins/:id/history",
				Handler: CoinHistoryHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/market/overview",
				Handler: MarketOverviewHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/news/policies",
				Handler: PolicyNewsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/macro/nfp",
				Handler: NfpHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/subscriptions",
				Handler: SubscribeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/admin/login",
				Handler: AdminLoginHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthzHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/admin/subscribers",
				Handler: AdminSubscribersHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/admin/settings",
				Handler: AdminGetSettingsHandler(serverCtx),
			},
			{
				Method:  http.MethodPut,
				Path:    "/api/admin/settings",
				Handler: AdminUpdateSettingsHandler(serverCtx),
			},
		},
		rest.WithJwt(serverCtx.Config.Admin.JwtSecret),
	)
}
