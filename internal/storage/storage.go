package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrParentNotFound — указан parent_id, но родитель не найден.
	ErrParentNotFound = errors.New("parent not found")
	// ErrConflict — конфликт уникальности (гонка по thread_path у сиблингов).
	ErrConflict = errors.New("conflict")
	// ErrMaxDepthExceeded — превышена максимально допустимая глубина ветки.
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
	// ErrInvalidCursor — битый/чужой page_token.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// UpdateComment — редактируемые поля комментария. EditedAt передаётся сервисом
// (инъекция часов), чтобы отметки правки были детерминированы в тестах.
type UpdateComment struct {
	Content        string
	Type           models.CommentType
	Visibility     models.Visibility
	IsConfidential bool
	Priority       models.Priority
	EditedAt       time.Time
}

// Storage описывает гейтвей персистентности движка обсуждений.
//
// Комментариями и упоминаниями владеет движок; посты и сотрудники принадлежат
// смежным контекстам: сотрудники читаются, на постах дописываются только
// счётчик комментариев и отметка последней активности.
type Storage interface {
	// CreateComment создаёт корневой комментарий или ответ вместе с упоминаниями.
	// Входной Comment должен содержать AuthorID, Content и классификацию
	// (Type/Visibility/Priority); PostID обязателен для корня, у ответа он
	// наследуется от родителя (явный PostID, противоречащий родителю, —
	// ErrParentNotFound).
	// Позиционирование в дереве (ThreadLevel, ThreadPath), каскад reply_count по
	// цепочке предков и обновление активности поста — ответственность хранилища.
	// Возможные ошибки: ErrParentNotFound, ErrMaxDepthExceeded, ErrConflict.
	CreateComment(ctx context.Context, comment models.Comment, mentions []models.CommentMention) (*models.Comment, error)

	// UpdateComment заменяет контент/классификацию комментария, помечает его
	// отредактированным и перезаписывает набор упоминаний.
	// Если запись не найдена — ErrNotFound.
	UpdateComment(ctx context.Context, id string, upd UpdateComment, mentions []models.CommentMention) (*models.Comment, error)

	// DeleteComment выполняет мягкое удаление и каскад −1 по цепочке предков.
	// Если запись не найдена — ErrNotFound.
	DeleteComment(ctx context.Context, id string) error

	// CommentByID возвращает комментарий по идентификатору.
	// Если запись не найдена — ErrNotFound.
	CommentByID(ctx context.Context, id string) (*models.Comment, error)

	// CommentsByPost возвращает все комментарии поста (включая удалённые и
	// скрытые модерацией) — фильтрация видимости выполняется сервисным слоем.
	CommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)

	// SetResolved помечает комментарий решённым. Если запись не найдена — ErrNotFound.
	SetResolved(ctx context.Context, id string, resolvedBy uuid.UUID, note string, at time.Time) (*models.Comment, error)

	// SetModeration применяет результат перехода модерации: статус, причину,
	// отметку времени. Если запись не найдена — ErrNotFound.
	SetModeration(ctx context.Context, id string, st models.ModerationStatus, reason string, at time.Time) (*models.Comment, error)

	// SetHighlighted выставляет флаг выделения. Если запись не найдена — ErrNotFound.
	SetHighlighted(ctx context.Context, id string, highlighted bool) (*models.Comment, error)

	// MentionsByComment возвращает упоминания одного комментария в порядке
	// их позиций в тексте.
	MentionsByComment(ctx context.Context, commentID string) ([]models.CommentMention, error)

	// MentionsByEmployee возвращает страницу упоминаний, адресованных сотруднику.
	// Сортировка: сначала новые. При некорректном page_token — ErrInvalidCursor.
	MentionsByEmployee(ctx context.Context, employeeID uuid.UUID, p models.ListParams) (*models.MentionPage, error)

	// MarkMentionRead помечает упоминание прочитанным (единственная мутация
	// записи после создания). Если запись не найдена — ErrNotFound.
	MarkMentionRead(ctx context.Context, id string, at time.Time) error

	// PostByID возвращает проекцию поста. Если запись не найдена — ErrNotFound.
	PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// PostsActiveSince возвращает посты с активностью не раньше since,
	// опционально отфильтрованные по подразделению и категории.
	PostsActiveSince(ctx context.Context, since time.Time, department, category string) ([]models.Post, error)

	// EmployeeByID возвращает проекцию сотрудника. Если запись не найдена — ErrNotFound.
	EmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)

	// IsManagerOf сообщает, является ли managerID непосредственным руководителем
	// employeeID (ровно один уровень, транзитивность не учитывается).
	IsManagerOf(ctx context.Context, managerID, employeeID uuid.UUID) (bool, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
