package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/workhub/discussions-service/internal/errors"
	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/service"
)

type mentionBinding struct {
	EmployeeID string `json:"employee_id"`
	Text       string `json:"text"`
}

// toInputs конвертирует привязки упоминаний; битый employee_id — ошибка границы.
func toInputs(bindings []mentionBinding) ([]service.MentionInput, error) {
	out := make([]service.MentionInput, 0, len(bindings))
	for _, b := range bindings {
		id, err := uuid.Parse(b.EmployeeID)
		if err != nil {
			return nil, errInvalidArgument("malformed mention employee_id")
		}

		out = append(out, service.MentionInput{EmployeeID: id, Text: b.Text})
	}

	return out, nil
}

type createCommentRequest struct {
	Content         string           `json:"content"`
	ParentCommentID string           `json:"parent_comment_id,omitempty"`
	Type            string           `json:"type,omitempty"`
	Visibility      string           `json:"visibility,omitempty"`
	IsConfidential  bool             `json:"is_confidential,omitempty"`
	Priority        string           `json:"priority,omitempty"`
	Mentions        []mentionBinding `json:"mentions,omitempty"`
}

type createCommentResponse struct {
	Comment  commentView   `json:"comment"`
	Mentions []mentionView `json:"mentions,omitempty"`
}

// classification разбирает и валидирует классификацию один раз на границе.
func classification(typ, visibility, priority string) (models.CommentType, models.Visibility, models.Priority, error) {
	t, err := models.ParseCommentType(typ)
	if err != nil {
		return "", "", "", errInvalidArgument("unknown type")
	}

	v, err := models.ParseVisibility(visibility)
	if err != nil {
		return "", "", "", errInvalidArgument("unknown visibility")
	}

	p, err := models.ParsePriority(priority)
	if err != nil {
		return "", "", "", errInvalidArgument("unknown priority")
	}

	return t, v, p, nil
}

// CreateComment — POST /posts/{post_id}/comments.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed post_id"))
		return
	}

	var req createCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed body"))
		return
	}

	typ, vis, prio, err := classification(req.Type, req.Visibility, req.Priority)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	mentions, err := toInputs(req.Mentions)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	result, err := h.svc.CreateComment(r.Context(), service.CreateCommentInput{
		PostID:         postID,
		ParentID:       req.ParentCommentID,
		AuthorID:       actor,
		Content:        req.Content,
		Type:           typ,
		Visibility:     vis,
		IsConfidential: req.IsConfidential,
		Priority:       prio,
		Mentions:       mentions,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCommentResponse{
		Comment:  commentToView(result.Comment),
		Mentions: mentionsToView(result.Mentions),
	})
}

type updateCommentRequest struct {
	Content        string           `json:"content"`
	Type           string           `json:"type,omitempty"`
	Visibility     string           `json:"visibility,omitempty"`
	IsConfidential bool             `json:"is_confidential,omitempty"`
	Priority       string           `json:"priority,omitempty"`
	Mentions       []mentionBinding `json:"mentions,omitempty"`
}

// UpdateComment — PATCH /comments/{id}.
func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("empty id"))
		return
	}

	var req updateCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed body"))
		return
	}

	typ, vis, prio, err := classification(req.Type, req.Visibility, req.Priority)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	mentions, err := toInputs(req.Mentions)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	result, err := h.svc.UpdateComment(r.Context(), service.UpdateCommentInput{
		CommentID:      id,
		Content:        req.Content,
		Type:           typ,
		Visibility:     vis,
		IsConfidential: req.IsConfidential,
		Priority:       prio,
		Mentions:       mentions,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentToView(*result))
}

// DeleteComment — DELETE /comments/{id}.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("empty id"))
		return
	}

	if err := h.svc.DeleteComment(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CommentByID — GET /comments/{id}.
func (h *Handlers) CommentByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("empty id"))
		return
	}

	result, err := h.svc.CommentByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentToView(*result))
}

type resolveCommentRequest struct {
	ResolutionNote string `json:"resolution_note,omitempty"`
}

// ResolveComment — POST /comments/{id}/resolve.
func (h *Handlers) ResolveComment(w http.ResponseWriter, r *http.Request) {
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

	var req resolveCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed body"))
		return
	}

	result, err := h.svc.ResolveComment(r.Context(), service.ResolveCommentInput{
		ActorID:        actor,
		CommentID:      id,
		ResolutionNote: req.ResolutionNote,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentToView(*result))
}

type highlightCommentRequest struct {
	IsHighlighted bool `json:"is_highlighted"`
}

// HighlightComment — POST /comments/{id}/highlight.
func (h *Handlers) HighlightComment(w http.ResponseWriter, r *http.Request) {
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

	var req highlightCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed body"))
		return
	}

	result, err := h.svc.HighlightComment(r.Context(), service.HighlightCommentInput{
		ActorID:       actor,
		CommentID:     id,
		IsHighlighted: req.IsHighlighted,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentToView(*result))
}
