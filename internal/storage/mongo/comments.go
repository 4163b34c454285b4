package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
)

// rootThreadPath — материализованный путь любого корневого комментария.
// Уникальность путей обеспечивается только среди ответов (частичный индекс).
const rootThreadPath = "0"

// maxCascadeHops — защитный предел обхода цепочки предков: страхует от
// зацикливания на битых данных (parent_id-цикл руками в базе).
const maxCascadeHops = 64

// commentDoc — схема документа коллекции comments. Доменная модель и документ
// разведены намеренно: у модели нет bson-тегов, а документ фиксирует snake_case
// имена, по которым построены индексы и фильтры.
type commentDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	PostID   uuid.UUID          `bson:"post_id"`
	AuthorID uuid.UUID          `bson:"author_id"`
	ParentID string             `bson:"parent_id"`

	Content string `bson:"content"`

	ThreadLevel int32  `bson:"thread_level"`
	ThreadPath  string `bson:"thread_path"`
	ReplyCount  int32  `bson:"reply_count"`

	Type           string `bson:"type"`
	Visibility     string `bson:"visibility"`
	IsConfidential bool   `bson:"is_confidential"`
	Priority       string `bson:"priority"`

	ModerationStatus string     `bson:"moderation_status"`
	ModerationReason string     `bson:"moderation_reason,omitempty"`
	ModeratedAt      *time.Time `bson:"moderated_at,omitempty"`
	IsFlagged        bool       `bson:"is_flagged"`

	IsResolved     bool       `bson:"is_resolved"`
	ResolvedByID   uuid.UUID  `bson:"resolved_by_id,omitempty"`
	ResolvedAt     *time.Time `bson:"resolved_at,omitempty"`
	ResolutionNote string     `bson:"resolution_note,omitempty"`

	IsHighlighted bool `bson:"is_highlighted"`

	IsEdited bool       `bson:"is_edited"`
	EditedAt *time.Time `bson:"edited_at,omitempty"`

	LikeCount        int32     `bson:"like_count"`
	EndorsementCount int32     `bson:"endorsement_count"`
	LastActivityAt   time.Time `bson:"last_activity_at"`

	IsDeleted bool      `bson:"is_deleted"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d commentDoc) toModel() models.Comment {
	return models.Comment{
		ID:               d.ID.Hex(),
		PostID:           d.PostID,
		AuthorID:         d.AuthorID,
		ParentID:         d.ParentID,
		Content:          d.Content,
		ThreadLevel:      d.ThreadLevel,
		ThreadPath:       d.ThreadPath,
		ReplyCount:       d.ReplyCount,
		Type:             models.CommentType(d.Type),
		Visibility:       models.Visibility(d.Visibility),
		IsConfidential:   d.IsConfidential,
		Priority:         models.Priority(d.Priority),
		ModerationStatus: models.ModerationStatus(d.ModerationStatus),
		ModerationReason: d.ModerationReason,
		ModeratedAt:      d.ModeratedAt,
		IsFlagged:        d.IsFlagged,
		IsResolved:       d.IsResolved,
		ResolvedByID:     d.ResolvedByID,
		ResolvedAt:       d.ResolvedAt,
		ResolutionNote:   d.ResolutionNote,
		IsHighlighted:    d.IsHighlighted,
		IsEdited:         d.IsEdited,
		EditedAt:         d.EditedAt,
		LikeCount:        d.LikeCount,
		EndorsementCount: d.EndorsementCount,
		LastActivityAt:   d.LastActivityAt,
		IsDeleted:        d.IsDeleted,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// CreateComment создаёт корневой комментарий или ответ вместе с упоминаниями.
//
// Позиционирование выполняется здесь:
//   - корень: thread_level = 0, thread_path = "0";
//   - ответ: thread_level = parent+1, thread_path = parent + "." + (число
//     сиблингов + 1). Сиблинги считаются вместе с удалёнными — порядковые
//     номера никогда не переиспользуются. post_id наследуется от родителя;
//     явно переданный post_id, противоречащий родителю, — ErrParentNotFound.
//
// Гонка двух вставок с одинаковым (parent_id, thread_path) разрешается
// уникальным индексом: проигравший получает ErrConflict и может повторить.
// После вставки по цепочке предков проходит каскад reply_count +1, на посте
// обновляются счётчик комментариев и отметка активности.
func (s *Mongo) CreateComment(ctx context.Context, comment models.Comment, mentions []models.CommentMention) (*models.Comment, error) {
	const op = "storage/mongo/CreateComment"

	now := comment.CreatedAt.UTC()
	if comment.CreatedAt.IsZero() {
		now = time.Now().UTC()
	}

	doc := commentDoc{
		ID:               primitive.NewObjectID(),
		PostID:           comment.PostID,
		AuthorID:         comment.AuthorID,
		ParentID:         comment.ParentID,
		Content:          comment.Content,
		ThreadLevel:      0,
		ThreadPath:       rootThreadPath,
		Type:             string(comment.Type),
		Visibility:       string(comment.Visibility),
		IsConfidential:   comment.IsConfidential,
		Priority:         string(comment.Priority),
		ModerationStatus: string(comment.ModerationStatus),
		LastActivityAt:   now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if comment.ParentID != "" {
		parent, err := s.commentDocByID(ctx, comment.ParentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if parent.IsDeleted {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
		}

		// Ответ живёт в посте родителя: пустой post_id наследуется, а
		// явный, противоречащий родителю, — это ответ "не в том" посте.
		if comment.PostID == uuid.Nil {
			doc.PostID = parent.PostID
		} else if comment.PostID != parent.PostID {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
		}

		if parent.ThreadLevel+1 >= s.cfg.Limits.MaxDepth {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrMaxDepthExceeded)
		}

		siblings, err := s.comments.CountDocuments(ctx, bson.M{"parent_id": comment.ParentID})
		if err != nil {
			return nil, fmt.Errorf("%s: count siblings: %w", op, err)
		}

		doc.ThreadLevel = parent.ThreadLevel + 1
		doc.ThreadPath = parent.ThreadPath + "." + strconv.FormatInt(siblings+1, 10)
	}

	if _, err := s.comments.InsertOne(ctx, doc); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert comment: %w", op, err)
	}

	if err := s.insertMentions(ctx, doc.ID.Hex(), mentions, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if comment.ParentID != "" {
		if err := s.applyReplyDelta(ctx, comment.ParentID, doc.PostID, +1, now); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := s.touchPost(ctx, doc.PostID, +1, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := doc.toModel()

	return &result, nil
}

// UpdateComment заменяет контент/классификацию, помечает комментарий
// отредактированным и перезаписывает набор упоминаний.
func (s *Mongo) UpdateComment(ctx context.Context, id string, upd storage.UpdateComment, mentions []models.CommentMention) (*models.Comment, error) {
	const op = "storage/mongo/UpdateComment"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	at := upd.EditedAt.UTC()

	update := bson.M{"$set": bson.M{
		"content":         upd.Content,
		"type":            string(upd.Type),
		"visibility":      string(upd.Visibility),
		"is_confidential": upd.IsConfidential,
		"priority":        string(upd.Priority),
		"is_edited":       true,
		"edited_at":       at,
		"updated_at":      at,
	}}

	var doc commentDoc
	err = s.comments.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "is_deleted": false},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.mentions.DeleteMany(ctx, bson.M{"comment_id": id}); err != nil {
		return nil, fmt.Errorf("%s: delete mentions: %w", op, err)
	}

	if err := s.insertMentions(ctx, id, mentions, at); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := doc.toModel()

	return &result, nil
}

// DeleteComment выполняет мягкое удаление: сам документ остаётся на месте
// (порядковые номера сиблингов не переиспользуются), контент затирается,
// по цепочке предков проходит каскад −1. Повторное удаление — no-op:
// каскад не должен срабатывать дважды.
func (s *Mongo) DeleteComment(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteComment"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	now := time.Now().UTC()

	var doc commentDoc
	err = s.comments.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "content": "", "updated_at": now}},
	).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongodriver.ErrNoDocuments) {
			return fmt.Errorf("%s: %w", op, err)
		}

		// Либо записи нет вовсе, либо она уже удалена — во втором случае
		// удаление идемпотентно.
		n, cntErr := s.comments.CountDocuments(ctx, bson.M{"_id": oid})
		if cntErr != nil {
			return fmt.Errorf("%s: %w", op, cntErr)
		}

		if n == 0 {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil
	}

	if doc.ParentID != "" {
		if err := s.applyReplyDelta(ctx, doc.ParentID, doc.PostID, -1, now); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	}

	if err := s.touchPost(ctx, doc.PostID, -1, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CommentByID возвращает комментарий по hex-идентификатору.
func (s *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	doc, err := s.commentDocByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := doc.toModel()

	return &result, nil
}

// CommentsByPost возвращает все комментарии поста в порядке создания —
// включая удалённые и скрытые модерацией, фильтрует сервисный слой.
func (s *Mongo) CommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	const op = "storage/mongo/CommentsByPost"

	cur, err := s.comments.Find(ctx,
		bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	result := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toModel())
	}

	return result, nil
}

// SetResolved помечает комментарий решённым.
func (s *Mongo) SetResolved(ctx context.Context, id string, resolvedBy uuid.UUID, note string, at time.Time) (*models.Comment, error) {
	const op = "storage/mongo/SetResolved"

	return s.findOneAndSet(ctx, op, id, bson.M{
		"is_resolved":     true,
		"resolved_by_id":  resolvedBy,
		"resolution_note": note,
		"resolved_at":     at.UTC(),
		"updated_at":      at.UTC(),
	})
}

// SetModeration применяет результат перехода модерации. is_flagged —
// денормализация статуса flagged для быстрых выборок очереди модератора.
func (s *Mongo) SetModeration(ctx context.Context, id string, st models.ModerationStatus, reason string, at time.Time) (*models.Comment, error) {
	const op = "storage/mongo/SetModeration"

	return s.findOneAndSet(ctx, op, id, bson.M{
		"moderation_status": string(st),
		"moderation_reason": reason,
		"moderated_at":      at.UTC(),
		"is_flagged":        st == models.ModerationFlagged,
		"updated_at":        at.UTC(),
	})
}

// SetHighlighted выставляет флаг выделения комментария.
func (s *Mongo) SetHighlighted(ctx context.Context, id string, highlighted bool) (*models.Comment, error) {
	const op = "storage/mongo/SetHighlighted"

	return s.findOneAndSet(ctx, op, id, bson.M{
		"is_highlighted": highlighted,
		"updated_at":     time.Now().UTC(),
	})
}

// findOneAndSet — общий скелет точечных мутаций: $set по _id с возвратом
// обновлённого документа; отсутствие записи — ErrNotFound.
func (s *Mongo) findOneAndSet(ctx context.Context, op, id string, set bson.M) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc commentDoc
	err = s.comments.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := doc.toModel()

	return &result, nil
}

func (s *Mongo) commentDocByID(ctx context.Context, id string) (*commentDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	var doc commentDoc
	if err := s.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return &doc, nil
}

// applyReplyDelta проводит каскад reply_count по цепочке предков, начиная со
// стартового узла (родителя созданного/удалённого ответа) и заканчивая корнем,
// после чего один раз обновляет агрегаты поста.
//
// Цепочка сперва собирается целиком, затем применяются инкременты — так каскад
// не зависает на узле с битым parent_id посреди обхода. Инкремент выполняется
// pipeline-апдейтом с $max: счётчик атомарно зажимается снизу нулём.
func (s *Mongo) applyReplyDelta(ctx context.Context, startID string, postID uuid.UUID, delta int32, at time.Time) error {
	chain := make([]primitive.ObjectID, 0, 8)

	id := startID
	for id != "" && len(chain) < maxCascadeHops {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("cascade: bad ancestor id %q", id)
		}

		var doc struct {
			ParentID string `bson:"parent_id"`
		}
		if err := s.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
			if errors.Is(err, mongodriver.ErrNoDocuments) {
				break
			}

			return fmt.Errorf("cascade: load ancestor: %w", err)
		}

		chain = append(chain, oid)
		id = doc.ParentID
	}

	set := bson.D{
		{Key: "reply_count", Value: bson.D{{Key: "$max", Value: bson.A{
			0, bson.D{{Key: "$add", Value: bson.A{"$reply_count", delta}}},
		}}}},
		{Key: "last_activity_at", Value: at},
		{Key: "updated_at", Value: at},
	}

	update := mongodriver.Pipeline{bson.D{{Key: "$set", Value: set}}}

	for _, oid := range chain {
		if _, err := s.comments.UpdateByID(ctx, oid, update); err != nil {
			return fmt.Errorf("cascade: update ancestor: %w", err)
		}
	}

	return s.touchPost(ctx, postID, delta, at)
}

// touchPost обновляет агрегаты поста: счётчик комментариев (зажат нулём) и
// отметку последней активности. Удаление — тоже активность обсуждения,
// поэтому отметка освежается при любом знаке дельты.
func (s *Mongo) touchPost(ctx context.Context, postID uuid.UUID, delta int32, at time.Time) error {
	set := bson.D{
		{Key: "comment_count", Value: bson.D{{Key: "$max", Value: bson.A{
			0, bson.D{{Key: "$add", Value: bson.A{"$comment_count", delta}}},
		}}}},
		{Key: "last_activity_at", Value: at},
	}

	if _, err := s.posts.UpdateByID(ctx, postID, mongodriver.Pipeline{bson.D{{Key: "$set", Value: set}}}); err != nil {
		return fmt.Errorf("touch post: %w", err)
	}

	return nil
}
