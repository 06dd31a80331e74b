package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

// CoinHistoryHandler serves aligned price/market-cap/volume history for one coin.
func CoinHistoryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.HistoryReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("%s", err.Error()))
			return
		}

		points, err := svcCtx.Metrics.CoinHistory(r.Context(), req.CoinID, req.Timeframe, req.VsCurrency)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, points)
	}
}
