// Package models содержит доменные сущности discussions-сервиса.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommentType — классификация комментария.
type CommentType string

const (
	TypeRegular    CommentType = "regular"
	TypeQuestion   CommentType = "question"
	TypeSuggestion CommentType = "suggestion"
	TypeConcern    CommentType = "concern"
)

// ParseCommentType валидирует строковое значение типа один раз на границе транспорта.
// Пустая строка трактуется как значение по умолчанию (regular).
func ParseCommentType(s string) (CommentType, error) {
	switch CommentType(s) {
	case "":
		return TypeRegular, nil
	case TypeRegular, TypeQuestion, TypeSuggestion, TypeConcern:
		return CommentType(s), nil
	}

	return "", fmt.Errorf("unknown comment type %q", s)
}

// Visibility — область видимости комментария.
type Visibility string

const (
	VisibilityPublic       Visibility = "public"
	VisibilityTeam         Visibility = "team"
	VisibilityConfidential Visibility = "confidential"
)

// ParseVisibility валидирует видимость; пустая строка — public.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case "":
		return VisibilityPublic, nil
	case VisibilityPublic, VisibilityTeam, VisibilityConfidential:
		return Visibility(s), nil
	}

	return "", fmt.Errorf("unknown visibility %q", s)
}

// Priority — приоритет комментария.
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityUrgent   Priority = "urgent"
	PriorityCritical Priority = "critical"
)

// ParsePriority валидирует приоритет; пустая строка — normal.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityNormal, nil
	case PriorityNormal, PriorityHigh, PriorityUrgent, PriorityCritical:
		return Priority(s), nil
	}

	return "", fmt.Errorf("unknown priority %q", s)
}

// IsEscalated сообщает, относится ли приоритет к «повышенным»
// (участвует в trending-метрике hasHighPriorityItems).
func (p Priority) IsEscalated() bool {
	return p == PriorityHigh || p == PriorityUrgent || p == PriorityCritical
}

// ModerationStatus — статус модерации комментария.
type ModerationStatus string

const (
	ModerationPending     ModerationStatus = "pending"
	ModerationApproved    ModerationStatus = "approved"
	ModerationFlagged     ModerationStatus = "flagged"
	ModerationHidden      ModerationStatus = "hidden"
	ModerationRejected    ModerationStatus = "rejected"
	ModerationUnderReview ModerationStatus = "under_review"
)

// ParseModerationStatus валидирует статус модерации. Пустая строка недопустима:
// целевой статус — обязательный аргумент команды модерации.
func ParseModerationStatus(s string) (ModerationStatus, error) {
	switch ModerationStatus(s) {
	case ModerationPending, ModerationApproved, ModerationFlagged,
		ModerationHidden, ModerationRejected, ModerationUnderReview:
		return ModerationStatus(s), nil
	}

	return "", fmt.Errorf("unknown moderation status %q", s)
}

// Comment — внутренняя доменная модель комментария обсуждения (MongoDB).
// Важно:
//   - ID — ObjectID MongoDB в hex-виде. Наружу/вовнутрь конвертируется в string.
//   - PostID/AuthorID — UUID из смежных bounded-контекстов (посты/справочник сотрудников).
//   - ParentID — ObjectID родителя; пустая строка у корня.
//   - ThreadLevel — глубина ветки: 0 у корня, parent.ThreadLevel+1 у ответа.
//   - ThreadPath — материализованный путь: "0" у корня, parent.ThreadPath + "." + (порядковый
//     номер сиблинга, с 1) у ответа. Сегменты сравниваются как числа.
//   - ReplyCount — накопленный счётчик активности потомков: каждый созданный потомок даёт +1
//     всем своим предкам, удалённый — −1. Никогда не уходит ниже нуля.
//   - LikeCount/EndorsementCount — денормализованные счётчики из смежного контекста реакций;
//     движок обсуждений их только читает.
type Comment struct {
	ID       string
	PostID   uuid.UUID
	AuthorID uuid.UUID
	ParentID string

	Content string

	ThreadLevel int32
	ThreadPath  string
	ReplyCount  int32

	Type           CommentType
	Visibility     Visibility
	IsConfidential bool
	Priority       Priority

	ModerationStatus ModerationStatus
	ModerationReason string
	ModeratedAt      *time.Time
	IsFlagged        bool

	IsResolved     bool
	ResolvedByID   uuid.UUID
	ResolvedAt     *time.Time
	ResolutionNote string

	IsHighlighted bool

	IsEdited bool
	EditedAt *time.Time

	LikeCount        int32
	EndorsementCount int32
	LastActivityAt   time.Time

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ThreadNode — узел восстановленного дерева обсуждения для выдачи наружу.
type ThreadNode struct {
	Comment  Comment
	Children []ThreadNode
}

// ThreadOrder — порядок выдачи дерева обсуждения.
type ThreadOrder string

const (
	// OrderThread — depth-first порядок по ThreadPath (ответы под родителем,
	// сиблинги по порядковым номерам).
	OrderThread ThreadOrder = "thread"
	// OrderNewest — корни по убыванию created_at; ответы всегда в thread-порядке.
	OrderNewest ThreadOrder = "newest"
	// OrderOldest — корни по возрастанию created_at.
	OrderOldest ThreadOrder = "oldest"
)

// ParseThreadOrder валидирует порядок выдачи; пустая строка — thread.
func ParseThreadOrder(s string) (ThreadOrder, error) {
	switch ThreadOrder(s) {
	case "":
		return OrderThread, nil
	case OrderThread, OrderNewest, OrderOldest:
		return ThreadOrder(s), nil
	}

	return "", fmt.Errorf("unknown thread order %q", s)
}

// ListParams — базовые параметры постраничной выдачи (курсорная пагинация).
type ListParams struct {
	PageSize  int32
	PageToken string
}
