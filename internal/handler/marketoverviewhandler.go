package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

// MarketOverviewHandler serves global market aggregates plus the trending list.
func MarketOverviewHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.OverviewReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("%s", err.Error()))
			return
		}

		overview, err := svcCtx.Metrics.MarketOverview(r.Context(), req.VsCurrency)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, overview)
	}
}
