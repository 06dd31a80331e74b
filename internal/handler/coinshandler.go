package handler

import (
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinhealth-api/internal/errs"
	"coinhealth-api/internal/svc"
	"coinhealth-api/internal/types"
)

// CoinsHandler serves market snapshots with derived health scores.
func CoinsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CoinsReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errs.BadRequest("%s", err.Error()))
			return
		}

		items, err := svcCtx.Metrics.CoinsWithMetrics(r.Context(), splitIDs(req.Ids), req.VsCurrency, req.IncludeDetails)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, items)
	}
}

// splitIDs turns the comma-separated ids query value into a slice, dropping
// empty segments. An empty input yields nil so defaults apply downstream.
func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
