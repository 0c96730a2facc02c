package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/personalhub/hub/internal/config"
	"github.com/personalhub/hub/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error {
				return db.RunMigrations(ctx, database.DB, cfg.DBDriver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error {
				return db.MigrateDown(ctx, database.DB, cfg.DBDriver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error {
				version, err := db.Version(ctx, database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				fmt.Println("schema version:", version)
				return nil
			})
		},
	})

	return cmd
}

// withDB opens the configured database for the duration of fn.
func withDB(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(ctx, cfg, database)
}
