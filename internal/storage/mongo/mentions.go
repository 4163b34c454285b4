package mongo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
)

// mentionDoc — схема документа коллекции comment_mentions. Запись неизменна
// после создания, кроме флагов notified/read.
type mentionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CommentID string             `bson:"comment_id"`

	MentionedID uuid.UUID `bson:"mentioned_id"`
	AuthorID    uuid.UUID `bson:"author_id"`

	MentionText   string `bson:"mention_text"`
	StartPosition int32  `bson:"start_position"`
	Length        int32  `bson:"length"`

	Context string `bson:"context"`
	Urgency string `bson:"urgency"`

	HasBeenNotified bool       `bson:"has_been_notified"`
	IsRead          bool       `bson:"is_read"`
	ReadAt          *time.Time `bson:"read_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
}

func (d mentionDoc) toModel() models.CommentMention {
	return models.CommentMention{
		ID:              d.ID.Hex(),
		CommentID:       d.CommentID,
		MentionedID:     d.MentionedID,
		AuthorID:        d.AuthorID,
		MentionText:     d.MentionText,
		StartPosition:   d.StartPosition,
		Length:          d.Length,
		Context:         models.MentionContext(d.Context),
		Urgency:         models.MentionUrgency(d.Urgency),
		HasBeenNotified: d.HasBeenNotified,
		IsRead:          d.IsRead,
		ReadAt:          d.ReadAt,
		CreatedAt:       d.CreatedAt,
	}
}

// insertMentions вставляет набор упоминаний комментария одним InsertMany.
// Пустой набор — валидный случай (в тексте нет @-токенов).
func (s *Mongo) insertMentions(ctx context.Context, commentID string, mentions []models.CommentMention, at time.Time) error {
	if len(mentions) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(mentions))
	for _, m := range mentions {
		docs = append(docs, mentionDoc{
			ID:            primitive.NewObjectID(),
			CommentID:     commentID,
			MentionedID:   m.MentionedID,
			AuthorID:      m.AuthorID,
			MentionText:   m.MentionText,
			StartPosition: m.StartPosition,
			Length:        m.Length,
			Context:       string(m.Context),
			Urgency:       string(m.Urgency),
			CreatedAt:     at,
		})
	}

	if _, err := s.mentions.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert mentions: %w", err)
	}

	return nil
}

// MentionsByComment возвращает упоминания комментария в порядке их позиций в тексте.
func (s *Mongo) MentionsByComment(ctx context.Context, commentID string) ([]models.CommentMention, error) {
	const op = "storage/mongo/MentionsByComment"

	cur, err := s.mentions.Find(ctx,
		bson.M{"comment_id": commentID},
		options.Find().SetSort(bson.D{{Key: "start_position", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []mentionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	result := make([]models.CommentMention, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toModel())
	}

	return result, nil
}

// MentionsByEmployee возвращает страницу упоминаний, адресованных сотруднику:
// сначала новые, курсорная пагинация по паре (created_at, _id).
func (s *Mongo) MentionsByEmployee(ctx context.Context, employeeID uuid.UUID, p models.ListParams) (*models.MentionPage, error) {
	const op = "storage/mongo/MentionsByEmployee"

	filter := bson.M{"mentioned_id": employeeID}

	if p.PageToken != "" {
		ts, oid, err := decodeCursor(p.PageToken)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidCursor)
		}

		// Строго «старше курсора» в порядке (created_at desc, _id desc).
		filter["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": ts}},
			bson.M{"created_at": ts, "_id": bson.M{"$lt": oid}},
		}
	}

	limit := int64(p.PageSize)
	if limit <= 0 {
		limit = int64(s.cfg.Limits.Default)
	}

	cur, err := s.mentions.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit+1),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []mentionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	page := &models.MentionPage{}

	if int64(len(docs)) > limit {
		last := docs[limit-1]
		page.NextPageToken = encodeCursor(last.CreatedAt, last.ID)
		docs = docs[:limit]
	}

	page.Items = make([]models.CommentMention, 0, len(docs))
	for _, d := range docs {
		page.Items = append(page.Items, d.toModel())
	}

	return page, nil
}

// MarkMentionRead помечает упоминание прочитанным.
func (s *Mongo) MarkMentionRead(ctx context.Context, id string, at time.Time) error {
	const op = "storage/mongo/MarkMentionRead"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := s.mentions.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"is_read": true,
		"read_at": at.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// encodeCursor упаковывает позицию страницы в непрозрачный токен:
// base64("unixnano|objectid-hex").
func encodeCursor(ts time.Time, id primitive.ObjectID) string {
	raw := strconv.FormatInt(ts.UnixNano(), 10) + "|" + id.Hex()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor разбирает токен страницы; любой дефект формата — ошибка.
func decodeCursor(token string) (time.Time, primitive.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, err
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, primitive.NilObjectID, errors.New("malformed cursor")
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, err
	}

	oid, err := primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return time.Time{}, primitive.NilObjectID, err
	}

	return time.Unix(0, nanos).UTC(), oid, nil
}
