package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"quizhub/internal/app"
	"quizhub/internal/config"
	"quizhub/internal/infra/memory"
	"quizhub/internal/infra/postgres"
	redisinfra "quizhub/internal/infra/redis"
	transport "quizhub/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, 7*24*time.Hour)
	draftTTL := config.TTLDuration(cfg.Draft.TTL, 7*24*time.Hour)
	playTTL := config.TTLDuration(cfg.Play.TTL, time.Hour)
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var (
		users    app.UserRepository
		quizzes  app.QuizRepository
		searcher app.QuizSearcher
		results  app.ResultRepository
	)
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		users = postgres.NewUserRepository(db)
		quizzes = postgres.NewQuizRepository(db)
		searcher = postgres.NewQuizSearch(pool)
		results = postgres.NewResultRepository(db)
	} else {
		memUsers := memory.NewUserRepository()
		memQuizzes := memory.NewQuizRepository(memUsers)
		users = memUsers
		quizzes = memQuizzes
		searcher = memQuizzes
		results = memory.NewResultRepository(memUsers, memQuizzes)
	}

	var (
		sessions app.SessionStore
		views    app.ViewLimiter
		drafts   app.DraftStore
		plays    app.PlayStore
	)
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
		views = redisinfra.NewViewLimiter(redisClient, redisinfra.DefaultViewWindow)
		drafts = redisinfra.NewDraftStore(redisClient, draftTTL)
		plays = redisinfra.NewPlayStore(redisClient, playTTL)
		quizzes = redisinfra.NewQuizCache(quizzes, redisClient, cacheTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
		views = memory.NewViewLimiter(time.Hour)
		drafts = memory.NewDraftStore()
		plays = memory.NewPlayStore()
	}

	feed := app.NewResultFeed()
	authService := app.NewAuthService(users, sessions)
	quizService := app.NewQuizService(quizzes, searcher, views)
	resultService := app.NewResultService(results, quizzes, feed)
	userService := app.NewUserService(users, quizzes, results)
	draftService := app.NewDraftService(drafts)
	playService := app.NewPlayService(plays, quizzes, resultService)

	api := transport.NewAPI(authService, quizService, userService, resultService, draftService, playService)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizhub on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
