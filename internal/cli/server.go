package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"wrong-answers-service/internal/app"
	"wrong-answers-service/internal/config"
	"wrong-answers-service/internal/infra/memory"
	pgloader "wrong-answers-service/internal/infra/postgres"
	infraredis "wrong-answers-service/internal/infra/redis"
	transport "wrong-answers-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader app.QuestionLoader = memory.NewStaticQuestionLoader(memory.DefaultQuestions())
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}
	questionTTL := config.Duration(cfg.Questions.TTL, 10*time.Minute)
	questions := app.NewQuestionPool(loader, questionTTL)

	var games app.GameRepository = memory.NewGameRepository()
	var statsRepo app.StatsRepository = memory.NewStatsRepository()
	var ranking app.RankingStore = memory.NewRankingStore()
	if redisClient != nil {
		games = infraredis.NewGameRepository(redisClient)
		statsRepo = infraredis.NewStatsRepository(redisClient)
		ranking = infraredis.NewRankingStore(redisClient)
	}

	submissionDuration := config.Duration(cfg.Game.SubmissionDuration, 12*time.Hour)
	votingDuration := config.Duration(cfg.Game.VotingDuration, 12*time.Hour)

	stats := app.NewStatsService(statsRepo, ranking)
	service := app.NewGameService(games, questions, stats, submissionDuration, votingDuration)
	handler := transport.NewHandler(service, stats, transport.HeaderIdentityProvider{})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Routes(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting wrong-answers service on :%s", finalPort)
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
