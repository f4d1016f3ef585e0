package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quizhub/internal/app"
	"quizhub/internal/domain"
	"quizhub/internal/infra/postgres"
	pgmigrations "quizhub/internal/infra/postgres/migrations"
	redisinfra "quizhub/internal/infra/redis"
)

func TestQuizLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	users := postgres.NewUserRepository(db)
	var quizzes app.QuizRepository = redisinfra.NewQuizCache(postgres.NewQuizRepository(db), redisClient, time.Minute)
	searcher := postgres.NewQuizSearch(pool)
	results := postgres.NewResultRepository(db)

	feed := app.NewResultFeed()
	auth := app.NewAuthService(users, redisinfra.NewSessionStore(redisClient, time.Hour))
	quizSvc := app.NewQuizService(quizzes, searcher, redisinfra.NewViewLimiter(redisClient, time.Hour))
	resultSvc := app.NewResultService(results, quizzes, feed)
	playSvc := app.NewPlayService(redisinfra.NewPlayStore(redisClient, time.Hour), quizzes, resultSvc)
	userSvc := app.NewUserService(users, quizzes, results)

	author, err := auth.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("register author: %v", err)
	}
	player, err := auth.Register(ctx, "Bob", "bob@example.com", "password123")
	if err != nil {
		t.Fatalf("register player: %v", err)
	}

	_, token, err := auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resolved, err := auth.UserFromToken(ctx, token); err != nil || resolved.ID != author.ID {
		t.Fatalf("resolve session: %v", err)
	}

	created, err := quizSvc.Create(ctx, author.ID, domain.QuizInput{
		Title:       "Basic arithmetic",
		Description: "Simple sums and differences",
		Questions: []domain.QuestionInput{
			{Question: "What is 2 + 2?", Options: []domain.OptionInput{
				{Option: "3"}, {Option: "4", IsCorrect: true},
			}},
			{Question: "What is 3 - 1?", Options: []domain.OptionInput{
				{Option: "2", IsCorrect: true}, {Option: "5"},
			}},
			{Question: "What is 10 / 2?", Options: []domain.OptionInput{
				{Option: "5", IsCorrect: true}, {Option: "4"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	// feeds come from the pgx read path
	page, err := quizSvc.Search(ctx, "arithmetic", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("search missed the quiz: %+v", page.Items)
	}
	if page.Items[0].Author.Name != "Alice" {
		t.Fatalf("author not joined in search: %+v", page.Items[0].Author)
	}

	// like toggling keeps the denormalized counter in step
	if liked, err := quizSvc.Like(ctx, player.ID, created.ID); err != nil || !liked {
		t.Fatalf("like: liked=%v err=%v", liked, err)
	}
	detail, err := quizSvc.GetByID(ctx, created.ID, player.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.LikesCount != 1 || !detail.Liked {
		t.Fatalf("like not reflected: %+v", detail.QuizCard)
	}

	// a repeat read within the hour does not count another view
	again, err := quizSvc.GetByID(ctx, created.ID, player.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.ViewsCount != detail.ViewsCount {
		t.Fatalf("view double-counted: %d vs %d", again.ViewsCount, detail.ViewsCount)
	}

	// play through to a stored, server-scored result
	playToken, _, err := playSvc.Start(ctx, player.ID, created.ID)
	if err != nil {
		t.Fatalf("start play: %v", err)
	}
	var final *domain.ResultDetail
	for _, answer := range []string{"4", "5", "5"} {
		_, result, err := playSvc.Submit(ctx, player.ID, playToken, answer)
		if err != nil {
			t.Fatalf("submit %q: %v", answer, err)
		}
		final = result
	}
	if final == nil || final.Score != 2 || final.Total != 3 {
		t.Fatalf("expected stored score 2/3, got %+v", final)
	}

	listed, err := resultSvc.ListByQuiz(ctx, author.ID, created.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("author listing: %d results, err=%v", len(listed), err)
	}

	profile, err := userSvc.Profile(ctx, player.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile.Liked) != 1 || len(profile.Results) != 1 || len(profile.Views) != 1 {
		t.Fatalf("profile aggregation wrong: liked=%d results=%d views=%d",
			len(profile.Liked), len(profile.Results), len(profile.Views))
	}

	// deleting the quiz cascades to likes, views and results
	if err := quizSvc.Delete(ctx, author.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := quizSvc.GetByID(ctx, created.ID, player.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz gone, got %v", err)
	}
	if leftover, err := results.ListByUser(ctx, player.ID); err != nil || len(leftover) != 0 {
		t.Fatalf("results survived the delete: %d err=%v", len(leftover), err)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
