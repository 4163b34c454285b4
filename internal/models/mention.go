package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MentionContext — контекст, в котором сделано упоминание.
type MentionContext string

const (
	MentionContextGeneral  MentionContext = "general"
	MentionContextQuestion MentionContext = "question"
)

// ParseMentionContext валидирует контекст упоминания; пустая строка — general.
func ParseMentionContext(s string) (MentionContext, error) {
	switch MentionContext(s) {
	case "":
		return MentionContextGeneral, nil
	case MentionContextGeneral, MentionContextQuestion:
		return MentionContext(s), nil
	}

	return "", fmt.Errorf("unknown mention context %q", s)
}

// MentionUrgency — срочность упоминания.
type MentionUrgency string

const (
	MentionUrgencyNormal MentionUrgency = "normal"
	MentionUrgencyHigh   MentionUrgency = "high"
)

// CommentMention — структурированная ссылка на сотрудника внутри текста комментария.
// Создаётся вместе с комментарием (или его правкой) и далее неизменна, за исключением
// флагов HasBeenNotified/IsRead, которыми владеют downstream-потоки уведомлений
// и read-receipt'ов.
//
// Инварианты спанов: 0 <= StartPosition и StartPosition+Length <= len(content);
// offsets — байтовые смещения в исходной (ненормализованной) строке, так что
// content[StartPosition:StartPosition+Length] == MentionText.
type CommentMention struct {
	ID        string
	CommentID string

	// MentionedID — сотрудник, на которого ссылается токен. uuid.Nil, если
	// вызывающая сторона не передала разрешённую личность для этого токена
	// (извлекатель сам личности не разрешает).
	MentionedID uuid.UUID
	// AuthorID — автор комментария, сделавший упоминание.
	AuthorID uuid.UUID

	MentionText   string
	StartPosition int32
	Length        int32

	Context MentionContext
	Urgency MentionUrgency

	HasBeenNotified bool
	IsRead          bool
	ReadAt          *time.Time

	CreatedAt time.Time
}

// MentionPage — результат постраничной выдачи упоминаний.
type MentionPage struct {
	Items         []CommentMention
	NextPageToken string
}
