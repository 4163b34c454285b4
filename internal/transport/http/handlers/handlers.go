// handlers — REST-хендлеры discussions-service поверх сервисного слоя.
//
// Идентичность актора приходит в заголовке X-Employee-Id: аутентификацию
// выполняет внешний gateway, здесь заголовку доверяем.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/service"
)

// employeeHeader — заголовок с идентификатором сотрудника-актора.
const employeeHeader = "X-Employee-Id"

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errInvalidArgument — локальная ошибка парсинга границы -> сервисный сентинел.
func errInvalidArgument(reason string) error {
	return fmt.Errorf("%s: %w", reason, service.ErrInvalidArgument)
}

// actorID извлекает идентичность актора из заголовка X-Employee-Id.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(employeeHeader)
	if raw == "" {
		return uuid.Nil, errInvalidArgument("missing " + employeeHeader)
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errInvalidArgument("malformed " + employeeHeader)
	}

	return id, nil
}
