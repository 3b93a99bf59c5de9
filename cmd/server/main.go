package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"example.com/mastermind/internal/app"
	"example.com/mastermind/internal/config"
	"example.com/mastermind/internal/migrate"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := newLogger(cfg)

	if len(args) > 0 {
		switch args[0] {
		case "migrate":
			return migrate.Up(cfg.Postgres.URL, log)
		default:
			return fmt.Errorf("unknown command %q (want: migrate)", args[0])
		}
	}

	if cfg.Postgres.RunMigrations {
		if err := migrate.Up(cfg.Postgres.URL, log); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	static, err := webHandler()
	if err != nil {
		return fmt.Errorf("web assets: %w", err)
	}

	a, err := app.New(ctx, cfg, log, app.Options{Static: static})
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.Log.Level))

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h).With("env", cfg.Env)
}
