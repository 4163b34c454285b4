package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/workhub/discussions-service/internal/errors"
	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/service"
)

type threadResponse struct {
	Post     postView         `json:"post"`
	Comments []threadNodeView `json:"comments"`
	Total    int32            `json:"total"`
}

// Thread — GET /posts/{post_id}/thread.
//
// Query-параметры: include_moderated (bool), type (фильтр корней),
// order_by (thread|newest|oldest).
func (h *Handlers) Thread(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed post_id"))
		return
	}

	q := r.URL.Query()

	includeModerated := false
	if raw := q.Get("include_moderated"); raw != "" {
		includeModerated, err = strconv.ParseBool(raw)
		if err != nil {
			apierrors.WriteError(w, r, errInvalidArgument("malformed include_moderated"))
			return
		}
	}

	var filterType *models.CommentType
	if raw := q.Get("type"); raw != "" {
		t, err := models.ParseCommentType(raw)
		if err != nil {
			apierrors.WriteError(w, r, errInvalidArgument("unknown type"))
			return
		}
		filterType = &t
	}

	order, err := models.ParseThreadOrder(q.Get("order_by"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("unknown order_by"))
		return
	}

	view, err := h.svc.Thread(r.Context(), service.ThreadInput{
		PostID:           postID,
		IncludeModerated: includeModerated,
		FilterType:       filterType,
		OrderBy:          order,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, threadResponse{
		Post:     postToView(view.Post),
		Comments: threadNodesToView(view.Comments),
		Total:    view.Total,
	})
}
