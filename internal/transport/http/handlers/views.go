package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/models"
)

// Транспортные представления доменных сущностей. Доменные модели наружу не
// отдаются напрямую: формат ответа — контракт API и фиксируется здесь.

type commentView struct {
	ID       string `json:"id"`
	PostID   string `json:"post_id"`
	ParentID string `json:"parent_id,omitempty"`
	AuthorID string `json:"author_id"`

	Content string `json:"content"`

	ThreadLevel int32  `json:"thread_level"`
	ThreadPath  string `json:"thread_path"`
	ReplyCount  int32  `json:"reply_count"`

	Type           string `json:"type"`
	Visibility     string `json:"visibility"`
	IsConfidential bool   `json:"is_confidential"`
	Priority       string `json:"priority"`

	ModerationStatus string     `json:"moderation_status"`
	ModerationReason string     `json:"moderation_reason,omitempty"`
	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`
	IsFlagged        bool       `json:"is_flagged"`

	IsResolved     bool       `json:"is_resolved"`
	ResolvedByID   string     `json:"resolved_by_id,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`

	IsHighlighted bool `json:"is_highlighted"`

	IsEdited bool       `json:"is_edited"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	LikeCount        int32     `json:"like_count"`
	EndorsementCount int32     `json:"endorsement_count"`
	LastActivityAt   time.Time `json:"last_activity_at"`

	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func commentToView(c models.Comment) commentView {
	v := commentView{
		ID:               c.ID,
		PostID:           c.PostID.String(),
		ParentID:         c.ParentID,
		AuthorID:         c.AuthorID.String(),
		Content:          c.Content,
		ThreadLevel:      c.ThreadLevel,
		ThreadPath:       c.ThreadPath,
		ReplyCount:       c.ReplyCount,
		Type:             string(c.Type),
		Visibility:       string(c.Visibility),
		IsConfidential:   c.IsConfidential,
		Priority:         string(c.Priority),
		ModerationStatus: string(c.ModerationStatus),
		ModerationReason: c.ModerationReason,
		ModeratedAt:      c.ModeratedAt,
		IsFlagged:        c.IsFlagged,
		IsResolved:       c.IsResolved,
		ResolvedAt:       c.ResolvedAt,
		ResolutionNote:   c.ResolutionNote,
		IsHighlighted:    c.IsHighlighted,
		IsEdited:         c.IsEdited,
		EditedAt:         c.EditedAt,
		LikeCount:        c.LikeCount,
		EndorsementCount: c.EndorsementCount,
		LastActivityAt:   c.LastActivityAt,
		IsDeleted:        c.IsDeleted,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}

	if c.ResolvedByID != uuid.Nil {
		v.ResolvedByID = c.ResolvedByID.String()
	}

	return v
}

type mentionView struct {
	ID        string `json:"id"`
	CommentID string `json:"comment_id"`

	MentionedID string `json:"mentioned_employee_id,omitempty"`
	AuthorID    string `json:"author_id"`

	MentionText   string `json:"mention_text"`
	StartPosition int32  `json:"start_position"`
	Length        int32  `json:"length"`

	Context string `json:"context"`
	Urgency string `json:"urgency"`

	HasBeenNotified bool       `json:"has_been_notified"`
	IsRead          bool       `json:"is_read"`
	ReadAt          *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func mentionToView(m models.CommentMention) mentionView {
	v := mentionView{
		ID:              m.ID,
		CommentID:       m.CommentID,
		AuthorID:        m.AuthorID.String(),
		MentionText:     m.MentionText,
		StartPosition:   m.StartPosition,
		Length:          m.Length,
		Context:         string(m.Context),
		Urgency:         string(m.Urgency),
		HasBeenNotified: m.HasBeenNotified,
		IsRead:          m.IsRead,
		ReadAt:          m.ReadAt,
		CreatedAt:       m.CreatedAt,
	}

	// Неразрешённый токен — поле отсутствует в ответе.
	if m.MentionedID != uuid.Nil {
		v.MentionedID = m.MentionedID.String()
	}

	return v
}

func mentionsToView(ms []models.CommentMention) []mentionView {
	out := make([]mentionView, 0, len(ms))
	for _, m := range ms {
		out = append(out, mentionToView(m))
	}
	return out
}

type postView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Department     string    `json:"department,omitempty"`
	Category       string    `json:"category,omitempty"`
	CommentCount   int32     `json:"comment_count"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func postToView(p models.Post) postView {
	return postView{
		ID:             p.ID.String(),
		Title:          p.Title,
		Department:     p.Department,
		Category:       p.Category,
		CommentCount:   p.CommentCount,
		LastActivityAt: p.LastActivityAt,
		CreatedAt:      p.CreatedAt,
	}
}

type threadNodeView struct {
	Comment  commentView      `json:"comment"`
	Children []threadNodeView `json:"children,omitempty"`
}

func threadNodesToView(nodes []models.ThreadNode) []threadNodeView {
	out := make([]threadNodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, threadNodeView{
			Comment:  commentToView(n.Comment),
			Children: threadNodesToView(n.Children),
		})
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

type trendingItemView struct {
	PostID                 string  `json:"post_id"`
	Title                  string  `json:"title"`
	Department             string  `json:"department,omitempty"`
	Category               string  `json:"category,omitempty"`
	CommentCount           int32   `json:"comment_count"`
	UniqueParticipants     int32   `json:"unique_participants"`
	LikeCount              int32   `json:"like_count"`
	EndorsementCount       int32   `json:"endorsement_count"`
	UnresolvedQuestions    int32   `json:"unresolved_questions"`
	HasHighPriorityItems   bool    `json:"has_high_priority_items"`
	HoursSinceLastActivity int32   `json:"hours_since_last_activity"`
	TrendingScore          float64 `json:"trending_score"`
	GrowthRate             float64 `json:"growth_rate"`
}

func trendingItemToView(m models.TrendingMetrics) trendingItemView {
	return trendingItemView{
		PostID:                 m.PostID.String(),
		Title:                  m.Title,
		Department:             m.Department,
		Category:               m.Category,
		CommentCount:           m.CommentCount,
		UniqueParticipants:     m.UniqueParticipants,
		LikeCount:              m.LikeCount,
		EndorsementCount:       m.EndorsementCount,
		UnresolvedQuestions:    m.UnresolvedQuestions,
		HasHighPriorityItems:   m.HasHighPriorityItems,
		HoursSinceLastActivity: m.HoursSinceLastActivity,
		TrendingScore:          m.TrendingScore,
		GrowthRate:             m.GrowthRate,
	}
}
