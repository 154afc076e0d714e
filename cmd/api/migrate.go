package main

import (
	"context"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/config"
	"github.com/ariefcatur/go-bookstore/internal/logger"
	"github.com/ariefcatur/go-bookstore/internal/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the bookstore tables in POSTGRES_DSN",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel, cfg.Env, cfg.ServiceName)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("schema applied")
		return nil
	},
}
