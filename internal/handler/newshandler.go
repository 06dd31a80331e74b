package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/svc"
)

// PolicyNewsHandler serves classified policy/regulation headlines.
func PolicyNewsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svcCtx.News.PolicyNews(r.Context())
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, items)
	}
}

// NfpHandler serves the static non-farm payroll series.
func NfpHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, svcCtx.Macro.NfpSeries())
	}
}
