package migrate

import (
	"database/sql"
	"fmt"
	"log/slog"

	"example.com/mastermind/db"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Up applies all pending migrations embedded in package db.
//
// It returns an error (no log.Fatal) so the caller can decide how to handle it.
func Up(dbURL string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	conn, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("migrations: open db: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error("migrations: close db", "err", err)
		}
	}()

	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	log.Info("running database migrations")
	if err := goose.Up(conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("migrations: goose up: %w", err)
	}
	log.Info("database migrations applied")
	return nil
}
