package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/workhub/discussions-service/internal/errors"
	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/service"
)

type moderateCommentRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ModerateComment — POST /comments/{id}/moderate.
func (h *Handlers) ModerateComment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("empty id"))
		return
	}

	var req moderateCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed body"))
		return
	}

	status, err := models.ParseModerationStatus(req.Status)
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("unknown status"))
		return
	}

	result, err := h.svc.ModerateComment(r.Context(), service.ModerateCommentInput{
		ActorID:   actor,
		CommentID: id,
		Status:    status,
		Reason:    req.Reason,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentToView(*result))
}
