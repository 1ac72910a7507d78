package main

import (
	"context"
	"database/sql"
	"os"

	"go-ems/db"
	"go-ems/internal/bootstrap"
	"go-ems/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const migrationTable = "schema_migrations"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "apply the embedded SQL migrations under db/migrations",
		SilenceUsage: true,
	}

	root.AddCommand(
		gooseCmd("up", "apply all pending migrations"),
		gooseCmd("down", "roll back the latest migration"),
		gooseCmd("status", "print the state of every migration"),
		gooseCmd("version", "print the current schema version"),
	)
	return root
}

func gooseCmd(command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), command)
		},
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := bootstrap.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	conn, err := goose.OpenDBWithDriver("pgx", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer func(conn *sql.DB) {
		if err := conn.Close(); err != nil {
			logger.Warn("close migration connection failed", zap.Error(err))
		}
	}(conn)

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName(migrationTable)

	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("running migrations", zap.String("command", command))
	if err := goose.RunContext(ctx, command, conn, db.MigrationsDir); err != nil {
		logger.Error("migration failed", zap.String("command", command), zap.Error(err))
		return err
	}
	return nil
}
