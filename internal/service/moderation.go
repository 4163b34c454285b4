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

// Машина статусов модерации.
//
// pending -> approved | flagged | hidden | rejected | under_review
// flagged, under_review -> approved | hidden | rejected
// approved, hidden, rejected — терминальные для обычного потока
// (переоткрытие — только административный обход, здесь не моделируется).
var moderationTransitions = map[models.ModerationStatus][]models.ModerationStatus{
	models.ModerationPending: {
		models.ModerationApproved, models.ModerationFlagged, models.ModerationHidden,
		models.ModerationRejected, models.ModerationUnderReview,
	},
	models.ModerationFlagged: {
		models.ModerationApproved, models.ModerationHidden, models.ModerationRejected,
	},
	models.ModerationUnderReview: {
		models.ModerationApproved, models.ModerationHidden, models.ModerationRejected,
	},
	models.ModerationApproved: {},
	models.ModerationHidden:   {},
	models.ModerationRejected: {},
}

// reasonRequired — целевые статусы, требующие непустой причины модерации.
var reasonRequired = map[models.ModerationStatus]bool{
	models.ModerationFlagged:  true,
	models.ModerationHidden:   true,
	models.ModerationRejected: true,
}

// canTransition сообщает, допустим ли переход from -> to.
func canTransition(from, to models.ModerationStatus) bool {
	for _, allowed := range moderationTransitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// CanModerate решает, вправе ли актор модерировать целевой комментарий:
//   - автор может модерировать собственный комментарий (решить/отозвать);
//   - непосредственный руководитель автора (ровно один уровень, без
//     транзитивного подъёма по цепочке менеджеров);
//   - актор с повышенной ролью (инъецированный RoleChecker; Admin/HR).
//
// Отсутствие комментария или записи актора в справочнике — false без ошибки.
func (s *Service) CanModerate(ctx context.Context, actorID uuid.UUID, commentID string) (bool, error) {
	const op = "service/moderation/CanModerate"

	comm, err := s.storage.CommentByID(ctx, strings.TrimSpace(commentID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	if actorID == comm.AuthorID {
		return true, nil
	}

	if _, err := s.storage.EmployeeByID(ctx, actorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	elevated, err := s.roles.HasElevatedRole(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if elevated {
		return true, nil
	}

	isManager, err := s.storage.IsManagerOf(ctx, actorID, comm.AuthorID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isManager, nil
}

// ModerateCommentInput — команда модерации комментария.
type ModerateCommentInput struct {
	ActorID   uuid.UUID
	CommentID string
	Status    models.ModerationStatus
	Reason    string
}

// ModerateComment — переход статуса модерации.
//
// Порядок проверок: существование -> полномочия -> допустимость перехода ->
// обязательность причины. Каждый успешный переход штампует moderated_at.
//
// Поведение/ошибки:
//   - ErrNotFound — комментарий не найден;
//   - ErrPermissionDenied — актор не вправе модерировать;
//   - ErrInvalidTransition — переход запрещён машиной статусов;
//   - ErrInvalidArgument — flagged/hidden/rejected без причины;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) ModerateComment(ctx context.Context, in ModerateCommentInput) (*models.Comment, error) {
	const op = "service/moderation/ModerateComment"

	in.CommentID = strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With(
		"op", op,
		"id", in.CommentID,
		"actor_id", in.ActorID.String(),
		"status", string(in.Status),
	)

	if in.CommentID == "" || in.ActorID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := models.ParseModerationStatus(string(in.Status)); err != nil {
		lg.Warn("invalid argument: bad status")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comm, err := s.storage.CommentByID(ctx, in.CommentID)
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

	allowed, err := s.CanModerate(ctx, in.ActorID, in.CommentID)
	if err != nil {
		lg.Error("authority check failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !allowed {
		lg.Warn("permission denied")
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if !canTransition(comm.ModerationStatus, in.Status) {
		lg.Warn("invalid transition", "from", string(comm.ModerationStatus))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	reason := strings.TrimSpace(in.Reason)
	if reasonRequired[in.Status] && reason == "" {
		lg.Warn("moderation reason required")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.SetModeration(ctx, in.CommentID, in.Status, reason, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on SetModeration", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}
