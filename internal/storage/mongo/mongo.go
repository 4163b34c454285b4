package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/workhub/discussions-service/internal/config"
	"github.com/workhub/discussions-service/internal/storage"
)

var _ storage.Storage = (*Mongo)(nil)

const (
	commentsCollection  = "comments"
	mentionsCollection  = "comment_mentions"
	postsCollection     = "posts"
	employeesCollection = "employees"

	defaultDBName = "discussions"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
//
// Коллекциями comments/comment_mentions владеет движок; posts и employees —
// реплики смежных контекстов: employees только читается, на posts дописываются
// счётчик комментариев и отметка активности.
type Mongo struct {
	cfg       *config.Config
	client    *mongodriver.Client
	db        *mongodriver.Database
	comments  *mongodriver.Collection
	mentions  *mongodriver.Collection
	posts     *mongodriver.Collection
	employees *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := databaseFromURI(cfg.DB.URL)
	db := cli.Database(dbName)

	st := &Mongo{
		cfg:       cfg,
		client:    cli,
		db:        db,
		comments:  db.Collection(commentsCollection),
		mentions:  db.Collection(mentionsCollection),
		posts:     db.Collection(postsCollection),
		employees: db.Collection(employeesCollection),
	}

	if err := st.ensureIndexes(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, err
	}

	return st, nil
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureIndexes создает индексы, необходимые движку обсуждений.
//   - Выдача дерева: post_id + parent_id + created_at
//   - Уникальность материализованного пути среди сиблингов: parent_id + thread_path
//     (частичный индекс только для ответов — у всех корней путь "0");
//     проигранная гонка вставки всплывает как duplicate key -> ErrConflict
//   - Упоминания по адресату: mentioned_id + created_at(desc)
//   - Упоминания по комментарию: comment_id + start_position
//   - Trending-отбор постов: last_activity_at(desc)
//   - Управленческая связь: manager_id
func (s *Mongo) ensureIndexes(ctx context.Context) error {

	commentIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("post_parent_created"),
		},
		{
			Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "thread_path", Value: 1}},
			Options: options.Index().
				SetName("parent_thread_path_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "parent_id", Value: bson.D{{Key: "$gt", Value: ""}}}}),
		},
	}

	if _, err := s.comments.Indexes().CreateMany(ctx, commentIdx); err != nil {
		return fmt.Errorf("mongo ensure comment indexes: %w", err)
	}

	mentionIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "mentioned_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("mentioned_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "comment_id", Value: 1}, {Key: "start_position", Value: 1}},
			Options: options.Index().SetName("comment_start_asc"),
		},
	}

	if _, err := s.mentions.Indexes().CreateMany(ctx, mentionIdx); err != nil {
		return fmt.Errorf("mongo ensure mention indexes: %w", err)
	}

	postIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "last_activity_at", Value: -1}},
			Options: options.Index().SetName("last_activity_desc"),
		},
	}

	if _, err := s.posts.Indexes().CreateMany(ctx, postIdx); err != nil {
		return fmt.Errorf("mongo ensure post indexes: %w", err)
	}

	employeeIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "manager_id", Value: 1}},
			Options: options.Index().SetName("manager_asc"),
		},
	}

	if _, err := s.employees.Indexes().CreateMany(ctx, employeeIdx); err != nil {
		return fmt.Errorf("mongo ensure employee indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает разумное значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
