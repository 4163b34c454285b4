package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/discussions-service/internal/config"
	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается в ENV DATABASE_URL, а каждая спецификация
// создаёт свою БД с уникальным именем (см. newTestConfig).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	_ = os.Setenv("DATABASE_URL", uri)

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	dbName := "discussions_test_" + uuid.New().String()
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL + dbName
	} else {
		baseURL = baseURL + "/" + dbName
	}

	return &config.Config{
		DB: config.DBConfig{
			URL: baseURL,
		},
		Limits: config.LimitsConfig{
			Default:    2,
			Max:        100,
			MaxDepth:   5,
			MaxContent: 4000,
		},
		Trending: config.TrendingConfig{
			Window: 24 * time.Hour,
		},
	}
}

// mustNewMongo создаёт подключение к тестовой БД и регистрирует очистку по завершении теста.
func mustNewMongo(t *testing.T, cfg *config.Config) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run MongoDB integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (DATABASE_URL=%s)", err, cfg.DB.URL)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

// seedPost вставляет проекцию поста напрямую в коллекцию.
func seedPost(t *testing.T, m *Mongo, id uuid.UUID) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	_, err := m.posts.InsertOne(ctx, postDoc{
		ID:             id,
		Title:          "quarterly results",
		Department:     "finance",
		Category:       "announcement",
		LastActivityAt: time.Now().UTC().Add(-time.Hour),
		CreatedAt:      time.Now().UTC().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
}

// seedEmployee вставляет проекцию сотрудника напрямую в коллекцию.
func seedEmployee(t *testing.T, m *Mongo, doc employeeDoc) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if _, err := m.employees.InsertOne(ctx, doc); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
}

// newRootComment — минимально валидный корневой комментарий.
func newRootComment(postID uuid.UUID) models.Comment {
	return models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		Content:          "root comment",
		Type:             models.TypeRegular,
		Visibility:       models.VisibilityPublic,
		Priority:         models.PriorityNormal,
		ModerationStatus: models.ModerationPending,
	}
}

// TestEncodeDecodeCursor — encode/decode должны быть взаимно обратимыми.
func TestEncodeDecodeCursor(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Nanosecond)
	oid := primitive.NewObjectID()

	token := encodeCursor(now, oid)
	gotT, gotID, err := decodeCursor(token)
	if err != nil {
		t.Fatalf("decodeCursor error: %v", err)
	}
	if !gotT.Equal(now) {
		t.Fatalf("time mismatch: want %v, got %v", now, gotT)
	}
	if gotID != oid {
		t.Fatalf("oid mismatch: want %v, got %v", oid, gotID)
	}

	if _, _, err := decodeCursor("!!!"); err == nil {
		t.Fatalf("want error on malformed token")
	}
}

// TestCreateRootComment_Positioning — корень получает level=0, path="0"
// и поднимает агрегаты поста.
func TestCreateRootComment_Positioning(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	out, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	if out.ID == "" {
		t.Fatalf("expected generated ID")
	}

	if out.ThreadLevel != 0 || out.ThreadPath != "0" {
		t.Fatalf("root positioning = (%d, %q), want (0, \"0\")", out.ThreadLevel, out.ThreadPath)
	}

	if out.ReplyCount != 0 {
		t.Fatalf("root ReplyCount = %d, want 0", out.ReplyCount)
	}

	// Второй корень того же поста тоже получает путь "0" — конфликта нет.
	if _, err := m.CreateComment(ctx, newRootComment(postID), nil); err != nil {
		t.Fatalf("CreateComment(second root) error: %v", err)
	}

	post, err := m.PostByID(ctx, postID)
	if err != nil {
		t.Fatalf("PostByID error: %v", err)
	}

	if post.CommentCount != 2 {
		t.Fatalf("post.CommentCount = %d, want 2", post.CommentCount)
	}
}

// TestCreateReply_PathAndCascade — ответ наследует путь родителя с порядковым
// номером сиблинга, каскад reply_count проходит до корня.
func TestCreateReply_PathAndCascade(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	root, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	first, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "first reply",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(first reply) error: %v", err)
	}

	if first.ThreadLevel != 1 || first.ThreadPath != root.ThreadPath+".1" {
		t.Fatalf("first reply positioning = (%d, %q), want (1, %q)", first.ThreadLevel, first.ThreadPath, root.ThreadPath+".1")
	}

	second, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "second reply",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(second reply) error: %v", err)
	}

	if second.ThreadPath != root.ThreadPath+".2" {
		t.Fatalf("second reply path = %q, want %q", second.ThreadPath, root.ThreadPath+".2")
	}

	nested, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         first.ID,
		Content:          "nested",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(nested) error: %v", err)
	}

	if nested.ThreadLevel != 2 || nested.ThreadPath != first.ThreadPath+".1" {
		t.Fatalf("nested positioning = (%d, %q), want (2, %q)", nested.ThreadLevel, nested.ThreadPath, first.ThreadPath+".1")
	}

	// Каскад: корень видел трёх потомков, first — одного.
	gotRoot, err := m.CommentByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("CommentByID(root) error: %v", err)
	}

	if gotRoot.ReplyCount != 3 {
		t.Fatalf("root.ReplyCount = %d, want 3", gotRoot.ReplyCount)
	}

	gotFirst, err := m.CommentByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("CommentByID(first) error: %v", err)
	}

	if gotFirst.ReplyCount != 1 {
		t.Fatalf("first.ReplyCount = %d, want 1", gotFirst.ReplyCount)
	}

	post, err := m.PostByID(ctx, postID)
	if err != nil {
		t.Fatalf("PostByID error: %v", err)
	}

	if post.CommentCount != 4 {
		t.Fatalf("post.CommentCount = %d, want 4", post.CommentCount)
	}
}

// TestCreateReply_InheritsPostFromParent — ответ без post_id наследует пост
// родителя; явный post_id, противоречащий родителю, отвергается.
func TestCreateReply_InheritsPostFromParent(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	otherPostID := uuid.New()
	seedPost(t, m, otherPostID)

	root, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	reply, err := m.CreateComment(ctx, models.Comment{
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "reply without post id",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(reply) error: %v", err)
	}

	if reply.PostID != postID {
		t.Fatalf("reply.PostID = %v, want %v (inherited)", reply.PostID, postID)
	}

	// Ответ виден в выдаче треда своего поста.
	all, err := m.CommentsByPost(ctx, postID)
	if err != nil {
		t.Fatalf("CommentsByPost error: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("len(CommentsByPost) = %d, want 2", len(all))
	}

	// Каскад дошёл до агрегатов правильного поста.
	post, err := m.PostByID(ctx, postID)
	if err != nil {
		t.Fatalf("PostByID error: %v", err)
	}

	if post.CommentCount != 2 {
		t.Fatalf("post.CommentCount = %d, want 2", post.CommentCount)
	}

	// Ответ "не в том" посте: счётчики чужого поста остаются нетронутыми.
	_, err = m.CreateComment(ctx, models.Comment{
		PostID:           otherPostID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "cross-post reply",
		ModerationStatus: models.ModerationPending,
	}, nil)

	if !errors.Is(err, storage.ErrParentNotFound) {
		t.Fatalf("want ErrParentNotFound for cross-post reply, got %v", err)
	}

	other, err := m.PostByID(ctx, otherPostID)
	if err != nil {
		t.Fatalf("PostByID(other) error: %v", err)
	}

	if other.CommentCount != 0 {
		t.Fatalf("other.CommentCount = %d, want 0", other.CommentCount)
	}
}

// TestCreateReply_ParentNotFound — несуществующий или удалённый родитель.
func TestCreateReply_ParentNotFound(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	_, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         "65e0a0c9fd2f000000000000", // валидный hex ObjectID, но документа нет.
		Content:          "orphan",
		ModerationStatus: models.ModerationPending,
	}, nil)

	if !errors.Is(err, storage.ErrParentNotFound) {
		t.Fatalf("want ErrParentNotFound, got %v", err)
	}

	root, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	if err := m.DeleteComment(ctx, root.ID); err != nil {
		t.Fatalf("DeleteComment error: %v", err)
	}

	_, err = m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "reply to deleted",
		ModerationStatus: models.ModerationPending,
	}, nil)

	if !errors.Is(err, storage.ErrParentNotFound) {
		t.Fatalf("want ErrParentNotFound for deleted parent, got %v", err)
	}
}

// TestCreateReply_MaxDepthExceeded — глубина ветки ограничена MaxDepth.
func TestCreateReply_MaxDepthExceeded(t *testing.T) {
	// root(0) -> reply(1) допустим, reply(2) — уже нет.
	cfg := newTestConfig(t)
	cfg.Limits.MaxDepth = 2
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	root, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	first, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "first",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(first) error: %v", err)
	}

	_, err = m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         first.ID,
		Content:          "too deep",
		ModerationStatus: models.ModerationPending,
	}, nil)

	if !errors.Is(err, storage.ErrMaxDepthExceeded) {
		t.Fatalf("want ErrMaxDepthExceeded, got %v", err)
	}
}

// TestDeleteComment_SoftDeleteAndCascade — мягкое удаление ответа откатывает
// каскад; порядковый номер удалённого сиблинга не переиспользуется;
// повторное удаление — no-op без второго декремента.
func TestDeleteComment_SoftDeleteAndCascade(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	root, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment(root) error: %v", err)
	}

	reply, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "reply",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(reply) error: %v", err)
	}

	// Отметки активности откатываются назад: удаление обязано освежить их.
	backdated := time.Now().UTC().Add(-24 * time.Hour)
	if _, err := m.posts.UpdateByID(ctx, postID, bson.M{"$set": bson.M{"last_activity_at": backdated}}); err != nil {
		t.Fatalf("backdate post: %v", err)
	}

	rootOID, err := primitive.ObjectIDFromHex(root.ID)
	if err != nil {
		t.Fatalf("root oid: %v", err)
	}

	if _, err := m.comments.UpdateByID(ctx, rootOID, bson.M{"$set": bson.M{"last_activity_at": backdated}}); err != nil {
		t.Fatalf("backdate root: %v", err)
	}

	if err := m.DeleteComment(ctx, reply.ID); err != nil {
		t.Fatalf("DeleteComment error: %v", err)
	}

	// Удаление — тоже активность: отметки поста и предка сдвигаются вперёд.
	post, err := m.PostByID(ctx, postID)
	if err != nil {
		t.Fatalf("PostByID after delete error: %v", err)
	}

	if !post.LastActivityAt.After(backdated) {
		t.Fatalf("post.LastActivityAt = %v, want after %v", post.LastActivityAt, backdated)
	}

	refreshedRoot, err := m.CommentByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("CommentByID(root) after delete error: %v", err)
	}

	if !refreshedRoot.LastActivityAt.After(backdated) {
		t.Fatalf("root.LastActivityAt = %v, want after %v", refreshedRoot.LastActivityAt, backdated)
	}

	got, err := m.CommentByID(ctx, reply.ID)
	if err != nil {
		t.Fatalf("CommentByID after delete error: %v", err)
	}

	if !got.IsDeleted || got.Content != "" {
		t.Fatalf("soft delete failed: is_deleted=%v, content=%q", got.IsDeleted, got.Content)
	}

	gotRoot, err := m.CommentByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("CommentByID(root) error: %v", err)
	}

	if gotRoot.ReplyCount != 0 {
		t.Fatalf("root.ReplyCount after cascade = %d, want 0", gotRoot.ReplyCount)
	}

	// Повторное удаление не должно уводить счётчики в минус.
	if err := m.DeleteComment(ctx, reply.ID); err != nil {
		t.Fatalf("repeated DeleteComment error: %v", err)
	}

	gotRoot, err = m.CommentByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("CommentByID(root) error: %v", err)
	}

	if gotRoot.ReplyCount != 0 {
		t.Fatalf("root.ReplyCount after repeated delete = %d, want 0", gotRoot.ReplyCount)
	}

	// Следующий сиблинг получает номер 2: слот удалённого не переиспользуется.
	next, err := m.CreateComment(ctx, models.Comment{
		PostID:           postID,
		AuthorID:         uuid.New(),
		ParentID:         root.ID,
		Content:          "next sibling",
		ModerationStatus: models.ModerationPending,
	}, nil)
	if err != nil {
		t.Fatalf("CreateComment(next sibling) error: %v", err)
	}

	if next.ThreadPath != root.ThreadPath+".2" {
		t.Fatalf("next sibling path = %q, want %q", next.ThreadPath, root.ThreadPath+".2")
	}
}

// TestDeleteComment_NotFound — отсутствующая запись и битый id.
func TestDeleteComment_NotFound(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := m.DeleteComment(ctx, "deadbeef"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound for bad id format, got %v", err)
	}

	if err := m.DeleteComment(ctx, "65e0a0c9fd2f000000000000"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing record, got %v", err)
	}
}

// TestUpdateComment_ReplacesMentions — правка меняет контент, ставит отметку
// редактирования и перезаписывает набор упоминаний.
func TestUpdateComment_ReplacesMentions(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	author := uuid.New()
	mentioned := uuid.New()

	created, err := m.CreateComment(ctx, newRootComment(postID), []models.CommentMention{{
		MentionedID:   mentioned,
		AuthorID:      author,
		MentionText:   "@alice",
		StartPosition: 0,
		Length:        6,
		Context:       models.MentionContextGeneral,
		Urgency:       models.MentionUrgencyNormal,
	}})
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}

	before, err := m.MentionsByComment(ctx, created.ID)
	if err != nil {
		t.Fatalf("MentionsByComment error: %v", err)
	}

	if len(before) != 1 || before[0].MentionText != "@alice" {
		t.Fatalf("unexpected mentions before update: %+v", before)
	}

	editedAt := time.Now().UTC()
	updated, err := m.UpdateComment(ctx, created.ID, storage.UpdateComment{
		Content:    "now mentions @bob instead",
		Type:       models.TypeQuestion,
		Visibility: models.VisibilityTeam,
		Priority:   models.PriorityHigh,
		EditedAt:   editedAt,
	}, []models.CommentMention{{
		MentionedID:   uuid.New(),
		AuthorID:      author,
		MentionText:   "@bob",
		StartPosition: 13,
		Length:        4,
		Context:       models.MentionContextGeneral,
		Urgency:       models.MentionUrgencyNormal,
	}})
	if err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}

	if !updated.IsEdited || updated.EditedAt == nil {
		t.Fatalf("edit mark missing: is_edited=%v, edited_at=%v", updated.IsEdited, updated.EditedAt)
	}

	if updated.Type != models.TypeQuestion || updated.Visibility != models.VisibilityTeam {
		t.Fatalf("classification not updated: %+v", updated)
	}

	after, err := m.MentionsByComment(ctx, created.ID)
	if err != nil {
		t.Fatalf("MentionsByComment after update error: %v", err)
	}

	if len(after) != 1 || after[0].MentionText != "@bob" {
		t.Fatalf("mentions not replaced: %+v", after)
	}
}

// TestSetResolved_SetModeration_SetHighlighted — точечные мутации статусов.
func TestSetResolved_SetModeration_SetHighlighted(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	c, err := m.CreateComment(ctx, newRootComment(postID), nil)
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}

	resolver := uuid.New()
	at := time.Now().UTC()

	resolved, err := m.SetResolved(ctx, c.ID, resolver, "answered offline", at)
	if err != nil {
		t.Fatalf("SetResolved error: %v", err)
	}

	if !resolved.IsResolved || resolved.ResolvedByID != resolver || resolved.ResolvedAt == nil {
		t.Fatalf("resolution not recorded: %+v", resolved)
	}

	moderated, err := m.SetModeration(ctx, c.ID, models.ModerationFlagged, "inappropriate tone", at)
	if err != nil {
		t.Fatalf("SetModeration error: %v", err)
	}

	if moderated.ModerationStatus != models.ModerationFlagged || !moderated.IsFlagged {
		t.Fatalf("moderation not recorded: %+v", moderated)
	}

	// Перевод из flagged снимает денормализованный флаг.
	moderated, err = m.SetModeration(ctx, c.ID, models.ModerationApproved, "", at)
	if err != nil {
		t.Fatalf("SetModeration(approved) error: %v", err)
	}

	if moderated.IsFlagged {
		t.Fatalf("is_flagged must reset on approve")
	}

	highlighted, err := m.SetHighlighted(ctx, c.ID, true)
	if err != nil {
		t.Fatalf("SetHighlighted error: %v", err)
	}

	if !highlighted.IsHighlighted {
		t.Fatalf("highlight flag not set")
	}

	if _, err := m.SetResolved(ctx, "65e0a0c9fd2f000000000000", resolver, "", at); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing record, got %v", err)
	}
}

// TestMentionsByEmployee_PaginationAndOrder — упоминания адресата: сначала
// новые, курсорная пагинация, битый токен -> ErrInvalidCursor.
func TestMentionsByEmployee_PaginationAndOrder(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	mentioned := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := m.CreateComment(ctx, newRootComment(postID), []models.CommentMention{{
			MentionedID:   mentioned,
			AuthorID:      uuid.New(),
			MentionText:   "@target.user",
			StartPosition: 0,
			Length:        12,
			Context:       models.MentionContextGeneral,
			Urgency:       models.MentionUrgencyNormal,
		}})
		if err != nil {
			t.Fatalf("CreateComment(%d) error: %v", i, err)
		}

		time.Sleep(10 * time.Millisecond)
	}

	p1, err := m.MentionsByEmployee(ctx, mentioned, models.ListParams{PageSize: 2})
	if err != nil {
		t.Fatalf("MentionsByEmployee page1 error: %v", err)
	}

	if len(p1.Items) != 2 {
		t.Fatalf("page1 len=%d, want 2", len(p1.Items))
	}

	if p1.NextPageToken == "" {
		t.Fatalf("page1 must have next token")
	}

	if p1.Items[0].CreatedAt.Before(p1.Items[1].CreatedAt) {
		t.Fatalf("order DESC violated: %v THEN %v", p1.Items[0].CreatedAt, p1.Items[1].CreatedAt)
	}

	p2, err := m.MentionsByEmployee(ctx, mentioned, models.ListParams{PageToken: p1.NextPageToken, PageSize: 2})
	if err != nil {
		t.Fatalf("MentionsByEmployee page2 error: %v", err)
	}

	if len(p2.Items) != 1 {
		t.Fatalf("page2 len=%d, want 1", len(p2.Items))
	}

	if _, err := m.MentionsByEmployee(ctx, mentioned, models.ListParams{PageToken: "!!!"}); !errors.Is(err, storage.ErrInvalidCursor) {
		t.Fatalf("want ErrInvalidCursor on bad token, got %v", err)
	}
}

// TestMarkMentionRead — единственная мутация упоминания после создания.
func TestMarkMentionRead(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	postID := uuid.New()
	seedPost(t, m, postID)

	mentioned := uuid.New()

	c, err := m.CreateComment(ctx, newRootComment(postID), []models.CommentMention{{
		MentionedID:   mentioned,
		AuthorID:      uuid.New(),
		MentionText:   "@reader",
		StartPosition: 0,
		Length:        7,
		Context:       models.MentionContextGeneral,
		Urgency:       models.MentionUrgencyHigh,
	}})
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}

	list, err := m.MentionsByComment(ctx, c.ID)
	if err != nil {
		t.Fatalf("MentionsByComment error: %v", err)
	}

	if len(list) != 1 {
		t.Fatalf("mentions len=%d, want 1", len(list))
	}

	if err := m.MarkMentionRead(ctx, list[0].ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkMentionRead error: %v", err)
	}

	list, err = m.MentionsByComment(ctx, c.ID)
	if err != nil {
		t.Fatalf("MentionsByComment after read error: %v", err)
	}

	if !list[0].IsRead || list[0].ReadAt == nil {
		t.Fatalf("read mark missing: %+v", list[0])
	}

	if err := m.MarkMentionRead(ctx, "65e0a0c9fd2f000000000000", time.Now().UTC()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing mention, got %v", err)
	}
}

// TestPostsActiveSince_Filters — отбор постов по окну активности и фильтрам.
func TestPostsActiveSince_Filters(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	now := time.Now().UTC()

	fresh := postDoc{
		ID: uuid.New(), Title: "fresh", Department: "finance", Category: "announcement",
		LastActivityAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}
	stale := postDoc{
		ID: uuid.New(), Title: "stale", Department: "finance", Category: "announcement",
		LastActivityAt: now.Add(-72 * time.Hour), CreatedAt: now.Add(-80 * time.Hour),
	}
	other := postDoc{
		ID: uuid.New(), Title: "other dept", Department: "engineering", Category: "update",
		LastActivityAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}

	for _, d := range []postDoc{fresh, stale, other} {
		if _, err := m.posts.InsertOne(ctx, d); err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}

	got, err := m.PostsActiveSince(ctx, now.Add(-24*time.Hour), "", "")
	if err != nil {
		t.Fatalf("PostsActiveSince error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("window filter: len=%d, want 2", len(got))
	}

	got, err = m.PostsActiveSince(ctx, now.Add(-24*time.Hour), "finance", "")
	if err != nil {
		t.Fatalf("PostsActiveSince(department) error: %v", err)
	}

	if len(got) != 1 || got[0].ID != fresh.ID {
		t.Fatalf("department filter mismatch: %+v", got)
	}
}

// TestEmployees_ManagerLink — проекция сотрудника и проверка прямого руководителя.
func TestEmployees_ManagerLink(t *testing.T) {
	cfg := newTestConfig(t)
	m := mustNewMongo(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	managerID := uuid.New()
	reportID := uuid.New()
	skipLevelID := uuid.New()

	seedEmployee(t, m, employeeDoc{ID: skipLevelID, Username: "vp", IsActive: true})
	seedEmployee(t, m, employeeDoc{ID: managerID, ManagerID: skipLevelID, Username: "manager", IsActive: true})
	seedEmployee(t, m, employeeDoc{ID: reportID, ManagerID: managerID, Username: "report", IsActive: true})

	got, err := m.EmployeeByID(ctx, reportID)
	if err != nil {
		t.Fatalf("EmployeeByID error: %v", err)
	}

	if got.ManagerID != managerID {
		t.Fatalf("ManagerID = %s, want %s", got.ManagerID, managerID)
	}

	ok, err := m.IsManagerOf(ctx, managerID, reportID)
	if err != nil {
		t.Fatalf("IsManagerOf error: %v", err)
	}
	if !ok {
		t.Fatalf("direct manager link not detected")
	}

	// Транзитивность не учитывается: руководитель руководителя — не модератор.
	ok, err = m.IsManagerOf(ctx, skipLevelID, reportID)
	if err != nil {
		t.Fatalf("IsManagerOf(skip level) error: %v", err)
	}
	if ok {
		t.Fatalf("skip-level manager must not match")
	}

	// Обратное направление тоже не работает.
	ok, err = m.IsManagerOf(ctx, reportID, managerID)
	if err != nil {
		t.Fatalf("IsManagerOf(reversed) error: %v", err)
	}
	if ok {
		t.Fatalf("report must not be manager of own manager")
	}

	if _, err := m.EmployeeByID(ctx, uuid.New()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown employee, got %v", err)
	}
}
