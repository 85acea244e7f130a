package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/smartmeal/backend/internal/database"
	"github.com/pageza/smartmeal/backend/internal/logging"
	"github.com/pageza/smartmeal/backend/migrations"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	logging.Setup(os.Getenv("LOG_LEVEL"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		slog.Error("DATABASE_URL environment variable is not set")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if *rollback {
		m, err := database.RollbackMigration(ctx, db, migrations.FS)
		if errors.Is(err, database.ErrNoMigrations) {
			slog.Info("nothing to roll back")
			return
		}
		if err != nil {
			slog.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		slog.Info("rollback complete", "migration", m.Name)
		return
	}

	n, err := database.ApplyMigrations(ctx, db, migrations.FS)
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations complete", "applied", n)
}
