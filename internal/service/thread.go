package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
	"github.com/workhub/discussions-service/pkg/log"
)

// ThreadInput — параметры восстановления дерева обсуждения поста.
type ThreadInput struct {
	PostID uuid.UUID
	// IncludeModerated — включать ли комментарии, убранные модерацией
	// (flagged/hidden/rejected/under_review). По умолчанию видимы только
	// pending и approved; отфильтрованный узел прячет и своё поддерево.
	IncludeModerated bool
	// FilterType — опциональный фильтр по типу, применяется к корням;
	// ответы отфильтрованного корня уходят вместе с ним.
	FilterType *models.CommentType
	OrderBy    models.ThreadOrder
}

// Thread — восстановленная выдача дерева обсуждения поста.
//
// Сиблинги-ответы упорядочиваются по порядковому номеру последнего сегмента
// thread_path (числовое сравнение, не лексикографическое); корни — по
// OrderBy (у всех корней путь "0", поэтому thread-порядок для корней —
// это порядок создания).
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой post_id;
//   - ErrNotFound — пост не найден;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) Thread(ctx context.Context, in ThreadInput) (*models.ThreadView, error) {
	const op = "service/thread/Thread"

	lg := log.From(ctx).With("op", op, "post_id", in.PostID.String())

	if in.PostID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	post, err := s.storage.PostByID(ctx, in.PostID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("post not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on PostByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	comments, err := s.storage.CommentsByPost(ctx, in.PostID)
	if err != nil {
		lg.Error("storage error on CommentsByPost", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	visible := comments[:0:0]
	for _, c := range comments {
		if !in.IncludeModerated && !moderationVisible(c.ModerationStatus) {
			continue
		}

		visible = append(visible, c)
	}

	nodes, total := buildThread(visible, in.FilterType, in.OrderBy)

	return &models.ThreadView{
		Post:     *post,
		Comments: nodes,
		Total:    total,
	}, nil
}

// moderationVisible — статусы, видимые в обычной выдаче.
func moderationVisible(st models.ModerationStatus) bool {
	return st == models.ModerationPending || st == models.ModerationApproved
}

// buildThread собирает дерево из плоского списка: дети группируются по
// parent_id, корни фильтруются по типу и упорядочиваются по orderBy.
// Узел, чей родитель не попал в выдачу, отбрасывается вместе с поддеревом.
func buildThread(comments []models.Comment, filterType *models.CommentType, orderBy models.ThreadOrder) ([]models.ThreadNode, int32) {
	children := make(map[string][]models.Comment, len(comments))
	var roots []models.Comment

	for _, c := range comments {
		if c.ParentID == "" {
			if filterType != nil && c.Type != *filterType {
				continue
			}

			roots = append(roots, c)
			continue
		}

		children[c.ParentID] = append(children[c.ParentID], c)
	}

	sortRoots(roots, orderBy)

	var total int32
	var build func(c models.Comment) models.ThreadNode
	build = func(c models.Comment) models.ThreadNode {
		total++

		kids := children[c.ID]
		sort.SliceStable(kids, func(i, j int) bool {
			return pathOrdinal(kids[i].ThreadPath) < pathOrdinal(kids[j].ThreadPath)
		})

		node := models.ThreadNode{Comment: c}
		for _, kid := range kids {
			node.Children = append(node.Children, build(kid))
		}

		return node
	}

	nodes := make([]models.ThreadNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, build(root))
	}

	return nodes, total
}

// sortRoots упорядочивает корневые комментарии согласно запрошенному порядку.
func sortRoots(roots []models.Comment, orderBy models.ThreadOrder) {
	switch orderBy {
	case models.OrderNewest:
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		})
	default:
		// thread и oldest для корней совпадают: порядок создания.
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.Before(roots[j].CreatedAt)
		})
	}
}

// pathOrdinal — порядковый номер сиблинга: последний сегмент thread_path
// как число. Битый сегмент уходит в конец выдачи.
func pathOrdinal(path string) int {
	i := strings.LastIndexByte(path, '.')
	n, err := strconv.Atoi(path[i+1:])
	if err != nil {
		return int(^uint(0) >> 1)
	}

	return n
}
