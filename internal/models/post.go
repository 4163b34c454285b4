package models

import (
	"time"

	"github.com/google/uuid"
)

// Post — частичная проекция поста, достаточная для движка обсуждений.
// Полной сущностью владеет смежный контекст контента; движок читает её
// и дописывает только счётчик комментариев и отметку активности.
type Post struct {
	ID         uuid.UUID
	Title      string
	Department string
	Category   string

	CommentCount   int32
	LastActivityAt time.Time

	CreatedAt time.Time
}

// Employee — read-only проекция сотрудника из внешнего справочника.
// ManagerID задаёт одноуровневую управленческую связь (uuid.Nil — менеджера нет).
type Employee struct {
	ID        uuid.UUID
	ManagerID uuid.UUID
	Username  string
	IsAdmin   bool
	IsHR      bool
	IsActive  bool
}

// TrendingPage — страница trending-выдачи (offset-пагинация по запросу клиента).
type TrendingPage struct {
	Items    []TrendingMetrics
	Page     int32
	PageSize int32
	Total    int32
}

// ThreadView — восстановленное дерево обсуждения одного поста.
type ThreadView struct {
	Post     Post
	Comments []ThreadNode
	// Total — количество узлов, попавших в выдачу после фильтрации.
	Total int32
}

// TrendingMetrics — агрегированные показатели вовлечённости одного обсуждения.
type TrendingMetrics struct {
	PostID                 uuid.UUID
	Title                  string
	Department             string
	Category               string
	CommentCount           int32
	UniqueParticipants     int32
	LikeCount              int32
	EndorsementCount       int32
	UnresolvedQuestions    int32
	HasHighPriorityItems   bool
	HoursSinceLastActivity int32
	TrendingScore          float64
	GrowthRate             float64
}
