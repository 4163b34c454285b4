package service

// Общие хелперы тестов сервисного слоя.
//
// Подготовка окружения:
//   # 1) Сгенерировать моки интерфейса хранилища:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//
//   # 2) Запустить тесты:
//   go test ./internal/service -v -race -count=1

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/config"
	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/mocks"
)

// fixedNow — инъецируемое «сейчас» для детерминизма временных полей.
var fixedNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

// testConfig — лимиты и окна, используемые тестами сервисного слоя.
func testConfig() config.Config {
	return config.Config{
		Limits: config.LimitsConfig{
			Default:    20,
			Max:        100,
			MaxDepth:   8,
			MaxContent: 200,
		},
		Trending: config.TrendingConfig{
			Window: 24 * time.Hour,
		},
		Cache: config.CacheConfig{
			TTL: time.Minute,
		},
	}
}

// newServiceWithMocks — поднимает сервис с моками стораджа и фиксированными часами.
func newServiceWithMocks(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ms := mocks.NewMockStorage(ctrl)
	s := &Service{
		storage: ms,
		roles:   directoryRoles{storage: ms},
		cfg:     testConfig(),
		now:     func() time.Time { return fixedNow },
	}
	return s, ms, ctrl
}

// mustComment — быстрый хелпер для сборки комментария.
func mustComment(postID uuid.UUID, parentID string, authorID uuid.UUID) *models.Comment {
	now := fixedNow.Add(-time.Hour)
	return &models.Comment{
		ID:               "65e0a0c9fd2f8b2d9c3f1a77",
		PostID:           postID,
		AuthorID:         authorID,
		ParentID:         parentID,
		Content:          "some content",
		ThreadLevel:      0,
		ThreadPath:       "0",
		Type:             models.TypeRegular,
		Visibility:       models.VisibilityPublic,
		Priority:         models.PriorityNormal,
		ModerationStatus: models.ModerationPending,
		LastActivityAt:   now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
