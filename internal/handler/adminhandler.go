package handler

import (
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

// AdminLoginHandler exchanges the admin password for a signed token.
func AdminLoginHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AdminLoginReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("%s", err.Error()))
			return
		}

		token, err := svcCtx.Auth.Login(req.Password)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.AdminLoginResp{Token: token})
	}
}

// AdminSubscribersHandler lists every digest subscriber.
func AdminSubscribersHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := svcCtx.SubscribersModel.List(r.Context())
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		out := make([]types.SubscriberView, 0, len(subs))
		for i := range subs {
			sub := &subs[i]
			out = append(out, types.SubscriberView{
				Email:     sub.Email,
				Coins:     sub.CoinList(),
				CreatedAt: sub.CreatedAt.Format(time.RFC3339),
				UpdatedAt: sub.UpdatedAt.Format(time.RFC3339),
			})
		}
		httpx.OkJsonCtx(r.Context(), w, out)
	}
}

// AdminGetSettingsHandler returns every app setting.
func AdminGetSettingsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svcCtx.SettingsModel.All(r.Context())
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, settings)
	}
}

// AdminUpdateSettingsHandler upserts the provided settings entries.
func AdminUpdateSettingsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SettingsUpdateReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("%s", err.Error()))
			return
		}
		if len(req.Entries) == 0 {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("no settings provided"))
			return
		}

		if err := svcCtx.SettingsModel.Upsert(r.Context(), req.Entries); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.MessageResp{Message: "settings updated"})
	}
}
