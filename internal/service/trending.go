package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/pkg/log"
)

// Веса слагаемых trending-оценки. Формула:
//
//	raw   = 3·comments + 2·likes + 4·endorsements + 5·participants (+10 за повышенный приоритет)
//	score = raw / (hoursSinceActivity + 2)^1.5
//
// Эндорсменты дороже лайков (осознанное действие), уникальные участники —
// самый сильный сигнал живой дискуссии. Знаменатель монотонно растёт с
// возрастом активности; +2 часа сглаживают всплеск только что созданных
// обсуждений (вариация hacker-news gravity).
const (
	weightComments     = 3.0
	weightLikes        = 2.0
	weightEndorsements = 4.0
	weightParticipants = 5.0
	weightHighPriority = 10.0
	decayGravity       = 1.5
)

// TrendingInput — параметры trending-выдачи.
type TrendingInput struct {
	// Hours — окно активности; 0 -> trending.window из конфигурации.
	Hours      int32
	Page       int32
	PageSize   int32
	Department string
	Category   string
}

// TrendingDiscussions — ранжированная выдача живых обсуждений.
//
// Метрики и оценка считаются по всем неудалённым комментариям поста;
// посты отбираются по last_activity_at внутри окна. Готовая страница
// кэшируется в Redis (если кэш сконфигурирован); ошибки кэша не фатальны
// и лишь логируются.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — отрицательные hours/page/page_size;
//   - ErrInternal — ошибки стораджа.
func (s *Service) TrendingDiscussions(ctx context.Context, in TrendingInput) (*models.TrendingPage, error) {
	const op = "service/trending/TrendingDiscussions"

	lg := log.From(ctx).With("op", op, "hours", in.Hours, "page", in.Page)

	if in.Hours < 0 || in.Page < 0 || in.PageSize < 0 {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	window := s.cfg.Trending.Window
	if in.Hours > 0 {
		window = time.Duration(in.Hours) * time.Hour
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	size := in.PageSize
	if size <= 0 {
		size = s.cfg.Limits.Default
	}

	if size > s.cfg.Limits.Max {
		size = s.cfg.Limits.Max
	}

	key := fmt.Sprintf("v1:h%d:p%d:s%d:d=%s:c=%s",
		int64(window.Hours()), page, size, in.Department, in.Category)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			lg.Warn("trending cache get failed", "err", err)
		} else if ok {
			return cached, nil
		}
	}

	now := s.now().UTC()

	posts, err := s.storage.PostsActiveSince(ctx, now.Add(-window), in.Department, in.Category)
	if err != nil {
		lg.Error("storage error on PostsActiveSince", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	scored := make([]models.TrendingMetrics, 0, len(posts))
	for _, post := range posts {
		comments, err := s.storage.CommentsByPost(ctx, post.ID)
		if err != nil {
			lg.Error("storage error on CommentsByPost", "err", err, "post_id", post.ID.String())
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		scored = append(scored, scoreThread(post, comments, now, window))
	}

	// Сортировка: по убыванию оценки; при равенстве — по свежести активности,
	// затем по id для полной детерминированности выдачи.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].TrendingScore != scored[j].TrendingScore {
			return scored[i].TrendingScore > scored[j].TrendingScore
		}

		if scored[i].HoursSinceLastActivity != scored[j].HoursSinceLastActivity {
			return scored[i].HoursSinceLastActivity < scored[j].HoursSinceLastActivity
		}

		return scored[i].PostID.String() < scored[j].PostID.String()
	})

	total := int32(len(scored))
	from := (page - 1) * size
	if from > total {
		from = total
	}

	to := from + size
	if to > total {
		to = total
	}

	result := &models.TrendingPage{
		Items:    scored[from:to],
		Page:     page,
		PageSize: size,
		Total:    total,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.Cache.TTL); err != nil {
			lg.Warn("trending cache set failed", "err", err)
		}
	}

	return result, nil
}

// scoreThread — чистая функция агрегации метрик вовлечённости одного поста.
// Мягко удалённые комментарии в метриках не участвуют.
func scoreThread(post models.Post, comments []models.Comment, now time.Time, window time.Duration) models.TrendingMetrics {
	m := models.TrendingMetrics{
		PostID:     post.ID,
		Title:      post.Title,
		Department: post.Department,
		Category:   post.Category,
	}

	participants := make(map[uuid.UUID]struct{})
	var recent int32

	for _, c := range comments {
		if c.IsDeleted {
			continue
		}

		m.CommentCount++
		m.LikeCount += c.LikeCount
		m.EndorsementCount += c.EndorsementCount
		participants[c.AuthorID] = struct{}{}

		if (c.Type == models.TypeQuestion || c.Type == models.TypeConcern) && !c.IsResolved {
			m.UnresolvedQuestions++
		}

		if c.Priority.IsEscalated() {
			m.HasHighPriorityItems = true
		}

		if !c.CreatedAt.Before(now.Add(-window)) {
			recent++
		}
	}

	m.UniqueParticipants = int32(len(participants))

	age := now.Sub(post.LastActivityAt).Hours()
	if age < 0 {
		age = 0
	}

	m.HoursSinceLastActivity = int32(age)

	raw := weightComments*float64(m.CommentCount) +
		weightLikes*float64(m.LikeCount) +
		weightEndorsements*float64(m.EndorsementCount) +
		weightParticipants*float64(m.UniqueParticipants)
	if m.HasHighPriorityItems {
		raw += weightHighPriority
	}

	m.TrendingScore = raw / math.Pow(age+2, decayGravity)
	m.GrowthRate = float64(recent) / window.Hours()

	return m
}
