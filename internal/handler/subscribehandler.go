package handler

import (
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/model"
	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

// SubscribeHandler registers or updates a digest subscription.
func SubscribeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SubscribeReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("%s", err.Error()))
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || !strings.Contains(email, "@") {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("a valid email address is required"))
			return
		}
		coins := model.NormalizeCoins(req.Coins)
		if len(coins) == 0 {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("at least one coin id is required"))
			return
		}

		if err := svcCtx.SubscribersModel.Upsert(r.Context(), email, coins); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.MessageResp{Message: "subscribed"})
	}
}
