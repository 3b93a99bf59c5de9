package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"example.com/mastermind/internal/auth"
	"example.com/mastermind/internal/config"
	"example.com/mastermind/internal/game"
	"example.com/mastermind/internal/httpapi"
	"example.com/mastermind/internal/leaderboard"
	"example.com/mastermind/internal/session"
	"example.com/mastermind/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db  *pgxpool.Pool
	rdb *redis.Client

	srv *http.Server
}

type Options struct {
	Static http.Handler // optional; if nil, no frontend is served
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := dbpool.Ping(pingCtx); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
	}

	authSvc := auth.NewService([]byte(cfg.Auth.Secret))
	users := store.NewUserStore(dbpool)
	board := newBoard(cfg, dbpool, log)

	secrets := game.RandomSecrets()
	if cfg.Game.Seed != 0 {
		secrets = game.SeededSecrets(cfg.Game.Seed)
	}

	sessions := session.NewService(session.ServiceConfig{
		Persist:  session.NewRedisStore(rdb, cfg.Redis.SessionTTL),
		Secrets:  secrets,
		Recorder: board,
		Log:      log.With("component", "session"),
	})

	handler := newRouter(routerDeps{
		log:      log,
		auth:     authSvc,
		sessions: sessions,
		authH: &httpapi.AuthHandler{
			Users:    users,
			Board:    board,
			Auth:     authSvc,
			TokenTTL: cfg.Auth.TokenTTL,
			Log:      log,
		},
		boardH: &httpapi.LeaderboardHandler{Board: board, Limit: cfg.Leaderboard.Limit, Log: log},
		static: opts.Static,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, srv: srv}, nil
}

func newBoard(cfg config.Config, dbpool *pgxpool.Pool, log *slog.Logger) leaderboard.Board {
	if cfg.Leaderboard.Backend == config.LeaderboardFile {
		log.Info("leaderboard backend", "backend", "file", "path", cfg.Leaderboard.File)
		return leaderboard.NewFileBoard(cfg.Leaderboard.File, cfg.Leaderboard.Limit, log)
	}
	log.Info("leaderboard backend", "backend", "postgres")
	return leaderboard.NewPostgresBoard(dbpool)
}

type routerDeps struct {
	log      *slog.Logger
	auth     *auth.Service
	sessions *session.Service
	authH    *httpapi.AuthHandler
	boardH   *httpapi.LeaderboardHandler
	static   http.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	session.NewServer(d.sessions, d.auth, d.log.With("component", "ws")).RegisterRoutes(r)

	r.Post("/api/auth/register", d.authH.Register)
	r.Post("/api/auth/login", d.authH.Login)
	r.With(httpapi.AuthMiddleware(d.auth)).Get("/api/me", d.authH.Me)
	r.Get("/api/leaderboard", d.boardH.Top)

	if d.static != nil {
		r.Handle("/*", d.static)
	}
	return r
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

// Close is best-effort.
func (a *App) Close(ctx context.Context) error {
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
