// service содержит бизнес-логику discussions-сервиса.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/cache"
	"github.com/workhub/discussions-service/internal/config"
	"github.com/workhub/discussions-service/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrParentNotFound — родитель не найден.
	ErrParentNotFound = errors.New("parent not found")
	// ErrConflict — конфликт уникальности (гонка вставки сиблингов).
	ErrConflict = errors.New("conflict")
	// ErrMaxDepthExceeded — превышена максимально допустимая глубина ветки.
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
	// ErrInvalidCursor — битый/чужой page_token.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPermissionDenied — у актора нет полномочий модерировать целевой комментарий.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidTransition — запрошенный переход статуса модерации недопустим.
	ErrInvalidTransition = errors.New("invalid moderation transition")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// RoleChecker — инъецируемая способность проверять повышенную роль актора
// (Admin/HR могут модерировать любой комментарий). Вынесена в интерфейс,
// чтобы полномочия не зависели от конкретного справочника.
type RoleChecker interface {
	HasElevatedRole(ctx context.Context, employeeID uuid.UUID) (bool, error)
}

// directoryRoles — реализация RoleChecker по флагам записи сотрудника
// во внешнем справочнике. Отсутствие записи — не повышенная роль.
type directoryRoles struct {
	storage storage.Storage
}

func (d directoryRoles) HasElevatedRole(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	emp, err := d.storage.EmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return emp.IsAdmin || emp.IsHR, nil
}

// Service — описывает бизнес-логику discussions-service.
type Service struct {
	storage storage.Storage
	cache   cache.TrendingCache
	roles   RoleChecker
	cfg     config.Config

	// now инъецируется для детерминизма временных полей в тестах
	// (ModeratedAt/ResolvedAt/EditedAt и расчёт trending-окна).
	now func() time.Time
}

// New создает новый экземпляр Service. trendingCache может быть nil —
// тогда trending-выдача считается на каждый запрос. roles может быть nil —
// тогда повышенная роль читается из флагов Admin/HR справочника сотрудников.
func New(st storage.Storage, trendingCache cache.TrendingCache, roles RoleChecker, cfg config.Config) *Service {
	if roles == nil {
		roles = directoryRoles{storage: st}
	}

	return &Service{
		storage: st,
		cache:   trendingCache,
		roles:   roles,
		cfg:     cfg,
		now:     time.Now,
	}
}
