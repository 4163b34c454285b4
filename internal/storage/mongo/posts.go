package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
)

// trendingScanLimit — верхняя граница выборки постов-кандидатов для
// trending-ранжирования за один запрос.
const trendingScanLimit = 500

// postDoc — проекция поста из смежного контекста публикаций. Движок
// обсуждений дописывает сюда только comment_count и last_activity_at.
type postDoc struct {
	ID             uuid.UUID `bson:"_id"`
	Title          string    `bson:"title"`
	Department     string    `bson:"department"`
	Category       string    `bson:"category"`
	CommentCount   int32     `bson:"comment_count"`
	LastActivityAt time.Time `bson:"last_activity_at"`
	CreatedAt      time.Time `bson:"created_at"`
}

func (d postDoc) toModel() models.Post {
	return models.Post{
		ID:             d.ID,
		Title:          d.Title,
		Department:     d.Department,
		Category:       d.Category,
		CommentCount:   d.CommentCount,
		LastActivityAt: d.LastActivityAt,
		CreatedAt:      d.CreatedAt,
	}
}

// PostByID возвращает проекцию поста.
func (s *Mongo) PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	const op = "storage/mongo/PostByID"

	var doc postDoc
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := doc.toModel()

	return &result, nil
}

// PostsActiveSince возвращает посты с активностью не раньше since, свежие
// первыми, опционально отфильтрованные по подразделению и категории.
func (s *Mongo) PostsActiveSince(ctx context.Context, since time.Time, department, category string) ([]models.Post, error) {
	const op = "storage/mongo/PostsActiveSince"

	filter := bson.M{"last_activity_at": bson.M{"$gte": since.UTC()}}
	if department != "" {
		filter["department"] = department
	}
	if category != "" {
		filter["category"] = category
	}

	cur, err := s.posts.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "last_activity_at", Value: -1}}).
		SetLimit(trendingScanLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	result := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toModel())
	}

	return result, nil
}
