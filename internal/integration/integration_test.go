package integration

import (
	"context"
	"database/sql"
	"encoding/json"
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

	"wrong-answers-service/internal/app"
	"wrong-answers-service/internal/domain"
	pgloader "wrong-answers-service/internal/infra/postgres"
	pgmigrations "wrong-answers-service/internal/infra/postgres/migrations"
	infraredis "wrong-answers-service/internal/infra/redis"
)

func TestFullGameCycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestions(t, ctx, pgURL, sampleCatalog())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	questions := app.NewQuestionPool(pgloader.NewQuestionLoader(pool), 5*time.Minute)
	statsRepo := infraredis.NewStatsRepository(redisClient)
	ranking := infraredis.NewRankingStore(redisClient)
	stats := app.NewStatsService(statsRepo, ranking)
	games := app.NewGameService(infraredis.NewGameRepository(redisClient), questions, stats, time.Hour, time.Hour)

	state, err := games.GetOrInitialize(ctx, "post-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if state.Phase != domain.PhaseSubmission {
		t.Fatalf("expected submission phase, got %s", state.Phase)
	}
	if !strings.HasPrefix(state.CurrentQuestion.ID, "itq") {
		t.Fatalf("expected a seeded question, got %+v", state.CurrentQuestion)
	}

	aliceSub, err := games.SubmitAnswer(ctx, "post-1", "u-alice", "alice", "definitely 7")
	if err != nil {
		t.Fatalf("alice submit: %v", err)
	}
	if _, err := games.SubmitAnswer(ctx, "post-1", "u-bob", "bob", "a potato"); err != nil {
		t.Fatalf("bob submit: %v", err)
	}

	if _, err := games.RotatePhase(ctx, "post-1"); err != nil {
		t.Fatalf("rotate to voting: %v", err)
	}
	if err := games.Vote(ctx, "post-1", "u-bob", aliceSub.ID); err != nil {
		t.Fatalf("vote: %v", err)
	}

	state, err = games.RotatePhase(ctx, "post-1")
	if err != nil {
		t.Fatalf("rotate to results: %v", err)
	}
	if state.Phase != domain.PhaseResults {
		t.Fatalf("expected results phase, got %s", state.Phase)
	}

	entries, err := stats.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 leaderboard entries, got %d", len(entries))
	}
	if entries[0].PlayerName != "alice" || entries[0].Wins != 1 || entries[0].TotalVotesReceived != 1 {
		t.Fatalf("expected alice winning, got %+v", entries[0])
	}

	// Stats landed in Redis as string-typed hash fields.
	wins, err := redisClient.HGet(ctx, "player:u-alice", "wins").Result()
	if err != nil || wins != "1" {
		t.Fatalf("expected wins hash field \"1\", got %q (%v)", wins, err)
	}

	// One more rotation starts a fresh game.
	state, err = games.RotatePhase(ctx, "post-1")
	if err != nil {
		t.Fatalf("rotate to new game: %v", err)
	}
	if state.Phase != domain.PhaseSubmission || len(state.Submissions) != 0 {
		t.Fatalf("expected fresh game, got %+v", state)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "game", "POSTGRES_PASSWORD": "gamepass", "POSTGRES_DB": "gamedb"},
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
	dsn := fmt.Sprintf("postgres://game:gamepass@%s:%s/gamedb?sslmode=disable", host, port.Port())
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

func seedQuestions(t *testing.T, ctx context.Context, dsn string, catalog []domain.Question) {
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

	for _, question := range catalog {
		data, err := json.Marshal(question)
		if err != nil {
			t.Fatalf("marshal question: %v", err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO questions (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
			question.ID, string(data)); err != nil {
			t.Fatalf("insert question: %v", err)
		}
	}
}

func sampleCatalog() []domain.Question {
	return []domain.Question{
		{ID: "itq1", Text: "What is 2 + 2?", Category: "Math", CorrectAnswer: "4"},
		{ID: "itq2", Text: "What color is the sky?", Category: "Science", CorrectAnswer: "Blue"},
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
