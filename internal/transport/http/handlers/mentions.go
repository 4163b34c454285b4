package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/workhub/discussions-service/internal/errors"
	"github.com/workhub/discussions-service/internal/service"
)

type mentionsResponse struct {
	Items         []mentionView `json:"items"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// MentionsByEmployee — GET /employees/{id}/mentions.
//
// Query-параметры: page_size, page_token (курсор предыдущей страницы).
func (h *Handlers) MentionsByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed employee id"))
		return
	}

	pageSize, err := parseInt32Query(r, "page_size")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.svc.MentionsByEmployee(r.Context(), service.MentionsByEmployeeInput{
		EmployeeID: employeeID,
		PageSize:   pageSize,
		PageToken:  r.URL.Query().Get("page_token"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mentionsResponse{
		Items:         mentionsToView(page.Items),
		NextPageToken: page.NextPageToken,
	})
}

// MarkMentionRead — POST /mentions/{id}/read.
func (h *Handlers) MarkMentionRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("empty id"))
		return
	}

	if err := h.svc.MarkMentionRead(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
