package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/workhub/discussions-service/internal/errors"
	"github.com/workhub/discussions-service/internal/service"
)

type trendingResponse struct {
	Items    []trendingItemView `json:"items"`
	Page     int32              `json:"page"`
	PageSize int32              `json:"page_size"`
	Total    int32              `json:"total"`
}

// parseInt32Query разбирает необязательный числовой query-параметр;
// отсутствие — ноль (сервис подставит значение по умолчанию).
func parseInt32Query(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errInvalidArgument("malformed " + name)
	}

	return int32(v), nil
}

// Trending — GET /discussions/trending.
//
// Query-параметры: hours, page, page_size, department, category.
func (h *Handlers) Trending(w http.ResponseWriter, r *http.Request) {
	hours, err := parseInt32Query(r, "hours")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := parseInt32Query(r, "page")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pageSize, err := parseInt32Query(r, "page_size")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	result, err := h.svc.TrendingDiscussions(r.Context(), service.TrendingInput{
		Hours:      hours,
		Page:       page,
		PageSize:   pageSize,
		Department: r.URL.Query().Get("department"),
		Category:   r.URL.Query().Get("category"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	items := make([]trendingItemView, 0, len(result.Items))
	for _, m := range result.Items {
		items = append(items, trendingItemToView(m))
	}

	writeJSON(w, http.StatusOK, trendingResponse{
		Items:    items,
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
	})
}
