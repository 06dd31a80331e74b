package handler

import (
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

// HealthzHandler reports liveness and process uptime in seconds.
func HealthzHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.HealthResp{
			Status: "ok",
			Uptime: time.Since(svcCtx.StartedAt).Seconds(),
		})
	}
}
