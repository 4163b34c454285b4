package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
	"github.com/workhub/discussions-service/pkg/log"
)

// Входные структуры сервисного слоя.

// CreateCommentInput — создание корневого комментария или ответа.
// Правила:
//   - если ParentID пуст, создаётся корень и обязателен PostID;
//   - если ParentID не пуст, создаётся ответ; PostID можно не передавать
//     (слой storage унаследует post_id от родителя);
//   - всегда обязательны: AuthorID, Content;
//   - Mentions — заранее разрешённые пары (employee_id, text); спаны
//     извлекаются из контента сервисом.
type CreateCommentInput struct {
	PostID         uuid.UUID
	ParentID       string
	AuthorID       uuid.UUID
	Content        string
	Type           models.CommentType
	Visibility     models.Visibility
	IsConfidential bool
	Priority       models.Priority
	Mentions       []MentionInput
}

// CreateCommentResult — созданный комментарий вместе с записанными упоминаниями.
type CreateCommentResult struct {
	Comment  models.Comment
	Mentions []models.CommentMention
}

// UpdateCommentInput — правка контента/классификации комментария.
// Набор упоминаний пересобирается из нового контента.
type UpdateCommentInput struct {
	CommentID      string
	Content        string
	Type           models.CommentType
	Visibility     models.Visibility
	IsConfidential bool
	Priority       models.Priority
	Mentions       []MentionInput
}

// ResolveCommentInput — пометить комментарий решённым.
type ResolveCommentInput struct {
	ActorID        uuid.UUID
	CommentID      string
	ResolutionNote string
}

// HighlightCommentInput — выставить/снять выделение комментария.
type HighlightCommentInput struct {
	ActorID       uuid.UUID
	CommentID     string
	IsHighlighted bool
}

// validateContent — общая валидация контента: TrimSpace, непустой, лимит длины.
func (s *Service) validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrInvalidArgument
	}

	if int32(len(content)) > s.cfg.Limits.MaxContent {
		return "", ErrInvalidArgument
	}

	return content, nil
}

// CreateComment — бизнес-операция создания комментария.
//
// Валидация:
//   - AuthorID обязателен (uuid.Nil -> ErrInvalidArgument);
//   - Content нормализуется (TrimSpace), непустой и не длиннее limits.max_content;
//   - если ParentID пуст (создание корня) — PostID обязателен;
//   - каждая переданная привязка упоминания должна соответствовать токену в контенте.
//
// Позиционирование в дереве и каскад счётчиков по цепочке предков выполняет
// гейтвей персистентности; упоминания записываются вместе с комментарием.
//
// Поведение/ошибки:
//   - ErrParentNotFound — если указан ParentID, но родитель отсутствует;
//   - ErrMaxDepthExceeded — если превышена максимальная глубина;
//   - ErrConflict — проигранная гонка вставки сиблингов (thread_path занят);
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*CreateCommentResult, error) {
	const op = "service/comments/CreateComment"

	lg := log.From(ctx).With(
		"op", op,
		"author_id", in.AuthorID.String(),
		"post_id", in.PostID.String(),
		"parent_id", in.ParentID,
	)

	// Валидация базовых атрибутов.
	if in.AuthorID == uuid.Nil {
		lg.Warn("invalid argument: empty author_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	content, err := s.validateContent(in.Content)
	if err != nil {
		lg.Warn("invalid argument: bad content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Для корня обязательна привязка к посту.
	if strings.TrimSpace(in.ParentID) == "" && in.PostID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id for root comment")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	mentions, err := buildMentions(content, in.AuthorID, in.Mentions)
	if err != nil {
		lg.Warn("invalid argument: unbound mention", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comm := models.Comment{
		PostID:           in.PostID,
		ParentID:         strings.TrimSpace(in.ParentID),
		AuthorID:         in.AuthorID,
		Content:          content,
		Type:             defaultType(in.Type),
		Visibility:       defaultVisibility(in.Visibility),
		IsConfidential:   in.IsConfidential,
		Priority:         defaultPriority(in.Priority),
		ModerationStatus: models.ModerationPending,
	}

	result, err := s.storage.CreateComment(ctx, comm, mentions)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrParentNotFound):
			lg.Warn("parent not found")
			return nil, fmt.Errorf("%s: %w", op, ErrParentNotFound)
		case errors.Is(err, storage.ErrMaxDepthExceeded):
			lg.Warn("max depth exceeded")
			return nil, fmt.Errorf("%s: %w", op, ErrMaxDepthExceeded)
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("sibling insert conflict")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		default:
			lg.Error("storage error on CreateComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	recorded, err := s.storage.MentionsByComment(ctx, result.ID)
	if err != nil {
		lg.Error("storage error on MentionsByComment", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return &CreateCommentResult{Comment: *result, Mentions: recorded}, nil
}

// UpdateComment — правка комментария: контент, классификация, пересборка
// упоминаний. Помечает комментарий отредактированным (is_edited/edited_at).
//
// Поведение/ошибки:
//   - ErrNotFound — комментарий не найден;
//   - ErrInvalidArgument — пустой id, битый контент или несвязанная привязка упоминания;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	in.CommentID = strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With("op", op, "id", in.CommentID)

	if in.CommentID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	content, err := s.validateContent(in.Content)
	if err != nil {
		lg.Warn("invalid argument: bad content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Автор нужен для записей упоминаний — он не меняется при правке.
	current, err := s.storage.CommentByID(ctx, in.CommentID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on CommentByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	mentions, err := buildMentions(content, current.AuthorID, in.Mentions)
	if err != nil {
		lg.Warn("invalid argument: unbound mention", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	upd := storage.UpdateComment{
		Content:        content,
		Type:           defaultType(in.Type),
		Visibility:     defaultVisibility(in.Visibility),
		IsConfidential: in.IsConfidential,
		Priority:       defaultPriority(in.Priority),
		EditedAt:       s.now().UTC(),
	}

	result, err := s.storage.UpdateComment(ctx, in.CommentID, upd, mentions)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// DeleteComment — мягкое удаление комментария по ID. Каскад −1 по цепочке
// предков и обновление активности поста выполняет хранилище.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой id;
//   - ErrNotFound — комментарий не найден;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	const op = "service/comments/DeleteComment"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteComment(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteComment", "err", err)
			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nil
}

// CommentByID — получить комментарий по ID.
//
// Поведение/ошибки:
//   - ErrNotFound — если комментарий не найден (включая неверный формат идентификатора);
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "service/comments/CommentByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.CommentByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on CommentByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// ResolveComment — пометить комментарий решённым. Операция доступна автору,
// его непосредственному руководителю и акторам с повышенной ролью
// (та же проверка полномочий, что и у модерации).
//
// Поведение/ошибки:
//   - ErrPermissionDenied — актор не вправе модерировать комментарий;
//   - ErrNotFound — комментарий не найден;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) ResolveComment(ctx context.Context, in ResolveCommentInput) (*models.Comment, error) {
	const op = "service/comments/ResolveComment"

	in.CommentID = strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With("op", op, "id", in.CommentID, "actor_id", in.ActorID.String())

	if in.CommentID == "" || in.ActorID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	allowed, err := s.CanModerate(ctx, in.ActorID, in.CommentID)
	if err != nil {
		lg.Error("authority check failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !allowed {
		lg.Warn("permission denied")
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	result, err := s.storage.SetResolved(ctx, in.CommentID, in.ActorID, strings.TrimSpace(in.ResolutionNote), s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on SetResolved", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// HighlightComment — выставить/снять выделение. Полномочия — как у модерации.
// Статус Approved дальнейшим изменениям is_highlighted не препятствует.
//
// Поведение/ошибки: как у ResolveComment.
func (s *Service) HighlightComment(ctx context.Context, in HighlightCommentInput) (*models.Comment, error) {
	const op = "service/comments/HighlightComment"

	in.CommentID = strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With("op", op, "id", in.CommentID, "actor_id", in.ActorID.String())

	if in.CommentID == "" || in.ActorID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	allowed, err := s.CanModerate(ctx, in.ActorID, in.CommentID)
	if err != nil {
		lg.Error("authority check failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !allowed {
		lg.Warn("permission denied")
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	result, err := s.storage.SetHighlighted(ctx, in.CommentID, in.IsHighlighted)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on SetHighlighted", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// defaultType/defaultVisibility/defaultPriority — подстраховка для прямых
// вызовов сервиса в обход транспорта (граница уже валидирует и дефолтит).
func defaultType(t models.CommentType) models.CommentType {
	if t == "" {
		return models.TypeRegular
	}

	return t
}

func defaultVisibility(v models.Visibility) models.Visibility {
	if v == "" {
		return models.VisibilityPublic
	}

	return v
}

func defaultPriority(p models.Priority) models.Priority {
	if p == "" {
		return models.PriorityNormal
	}

	return p
}
