package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"wrong-answers-service/internal/config"
	"wrong-answers-service/internal/infra/memory"
)

// NewSeedCmd loads the built-in question catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the questions table with the built-in catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return seedQuestions(cmd.Context(), cfg)
		},
	}
}

func seedQuestions(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	seeded := 0
	for _, question := range memory.DefaultQuestions() {
		data, err := json.Marshal(question)
		if err != nil {
			return fmt.Errorf("marshal question %s: %w", question.ID, err)
		}
		res, err := db.ExecContext(ctx,
			`INSERT INTO questions (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO NOTHING`,
			question.ID, string(data))
		if err != nil {
			return fmt.Errorf("insert question %s: %w", question.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			seeded += int(n)
		}
	}
	log.Printf("seeded %d questions", seeded)
	return nil
}
