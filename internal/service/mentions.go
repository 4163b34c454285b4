package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
	"github.com/workhub/discussions-service/pkg/log"
)

// mentionRE — грамматика токена упоминания: "@" + словесные символы,
// опционально один "." и ещё словесные символы (@username и @firstname.lastname).
// Сканирование слева направо, без перекрытий, с учётом регистра.
var mentionRE = regexp.MustCompile(`@\w+(?:\.\w+)?`)

// MentionInput — заранее разрешённая личность для токена упоминания.
// Разрешение текста в идентификатор сотрудника — ответственность вызывающей
// стороны (движок по тексту личности не ищет: два сотрудника могут делить
// один и тот же токен).
type MentionInput struct {
	EmployeeID uuid.UUID
	Text       string
}

// ExtractMentions — чистая функция: находит все токены упоминаний в content
// и возвращает структурированные записи со спанами в исходной строке
// (байтовые смещения, content[Start:Start+Length] == MentionText).
//
// resolved сопоставляет текст токена идентификатору сотрудника; токены без
// сопоставления записываются с MentionedID == uuid.Nil. Контекст и срочность
// выставляются по умолчанию (general/normal). Пустой вход — пустой результат.
// Идентификатор записи и отметку времени назначает хранилище.
func ExtractMentions(content string, authorID uuid.UUID, resolved map[string]uuid.UUID) []models.CommentMention {
	idx := mentionRE.FindAllStringIndex(content, -1)
	if len(idx) == 0 {
		return nil
	}

	out := make([]models.CommentMention, 0, len(idx))
	for _, span := range idx {
		text := content[span[0]:span[1]]
		out = append(out, models.CommentMention{
			MentionedID:   resolved[text],
			AuthorID:      authorID,
			MentionText:   text,
			StartPosition: int32(span[0]),
			Length:        int32(span[1] - span[0]),
			Context:       models.MentionContextGeneral,
			Urgency:       models.MentionUrgencyNormal,
		})
	}

	return out
}

// buildMentions собирает записи упоминаний для записи в хранилище:
// извлекает спаны из контента и привязывает переданные личности по тексту токена.
// Переданная личность без соответствующего токена в контенте — ErrInvalidArgument.
func buildMentions(content string, authorID uuid.UUID, inputs []MentionInput) ([]models.CommentMention, error) {
	resolved := make(map[string]uuid.UUID, len(inputs))
	for _, in := range inputs {
		text := strings.TrimSpace(in.Text)
		if text == "" || in.EmployeeID == uuid.Nil {
			return nil, fmt.Errorf("empty mention binding: %w", ErrInvalidArgument)
		}

		resolved[text] = in.EmployeeID
	}

	out := ExtractMentions(content, authorID, resolved)

	// Каждая привязка обязана соответствовать реально найденному токену.
	seen := make(map[string]struct{}, len(out))
	for _, m := range out {
		seen[m.MentionText] = struct{}{}
	}

	for text := range resolved {
		if _, ok := seen[text]; !ok {
			return nil, fmt.Errorf("mention %q not present in content: %w", text, ErrInvalidArgument)
		}
	}

	return out, nil
}

// MentionsByEmployeeInput — параметры постраничной выдачи упоминаний сотрудника.
type MentionsByEmployeeInput struct {
	EmployeeID uuid.UUID
	PageSize   int32
	PageToken  string
}

// MentionsByEmployee — страница упоминаний, адресованных сотруднику
// (для downstream-потока уведомлений/прочтений). page_size <= 0 заменяется
// limits.default, завышенный зажимается limits.max.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой employee_id;
//   - ErrInvalidCursor — некорректный page_token;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) MentionsByEmployee(ctx context.Context, in MentionsByEmployeeInput) (*models.MentionPage, error) {
	const op = "service/mentions/MentionsByEmployee"

	lg := log.From(ctx).With("op", op, "employee_id", in.EmployeeID.String())

	if in.EmployeeID == uuid.Nil {
		lg.Warn("invalid argument: empty employee_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	size := in.PageSize
	if size <= 0 {
		size = s.cfg.Limits.Default
	}

	if size > s.cfg.Limits.Max {
		size = s.cfg.Limits.Max
	}

	page, err := s.storage.MentionsByEmployee(ctx, in.EmployeeID, models.ListParams{
		PageSize:  size,
		PageToken: in.PageToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidCursor):
			lg.Warn("invalid cursor")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCursor)
		default:
			lg.Error("storage error on MentionsByEmployee", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return page, nil
}

// MarkMentionRead — пометить упоминание прочитанным (единственная мутация
// записи упоминания после создания; выполняется read-receipt потоком).
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой id;
//   - ErrNotFound — упоминание не найдено;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) MarkMentionRead(ctx context.Context, id string) error {
	const op = "service/mentions/MarkMentionRead"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.MarkMentionRead(ctx, id, s.now().UTC()); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("mention not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on MarkMentionRead", "err", err)
			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nil
}
