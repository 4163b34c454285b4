package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workhub/discussions-service/internal/service"
	"github.com/workhub/discussions-service/internal/transport/http/handlers"
	"github.com/workhub/discussions-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Metrics — собирать ли Prometheus-метрики по запросам.
	Metrics bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Metrics {
		root.Use(middleware.Metrics())
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// комментарии
	r.Post("/posts/{post_id}/comments", h.CreateComment)
	r.Get("/comments/{id}", h.CommentByID)
	r.Patch("/comments/{id}", h.UpdateComment)
	r.Delete("/comments/{id}", h.DeleteComment)
	r.Post("/comments/{id}/resolve", h.ResolveComment)
	r.Post("/comments/{id}/highlight", h.HighlightComment)

	// модерация
	r.Post("/comments/{id}/moderate", h.ModerateComment)

	// дерево обсуждения и trending
	r.Get("/posts/{post_id}/thread", h.Thread)
	r.Get("/discussions/trending", h.Trending)

	// упоминания
	r.Get("/employees/{id}/mentions", h.MentionsByEmployee)
	r.Post("/mentions/{id}/read", h.MarkMentionRead)
}
