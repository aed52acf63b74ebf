// Package app wires the reviewd service together and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"reviewdeck/internal/ai"
	"reviewdeck/internal/config"
	"reviewdeck/internal/forge"
	"reviewdeck/internal/server"
	"reviewdeck/internal/service"
	"reviewdeck/internal/storage"
	"reviewdeck/internal/tasks"
)

type App struct {
	cfg     config.Config
	version string
}

func New(version string) App {
	return App{
		cfg:     lo.Must(config.Load()),
		version: version,
	}
}

func (app App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	slog.SetDefault(newLogger(app.cfg.Debug))
	slog.Info("starting reviewd", slog.String("version", app.version))

	db, err := storage.Connect(ctx,
		app.cfg.Postgres.DSN,
		app.cfg.Postgres.MaxIdleConns,
		app.cfg.Postgres.MaxOpenConns,
		app.cfg.Postgres.ConnMaxLifetime,
	)
	if err != nil {
		return fmt.Errorf("storage.Connect: %w", err)
	}
	defer db.Close()

	reviews := storage.NewReviewRepository(db)

	host, err := forge.New(app.cfg.Forge.Kind, app.cfg.Forge.BaseURL, app.cfg.Forge.Token)
	if err != nil {
		return fmt.Errorf("forge.New: %w", err)
	}
	reviewer := ai.NewReviewer(app.cfg.Anthropic.APIKey, app.cfg.Anthropic.Model)

	enqueuer := tasks.NewEnqueuer(app.cfg.Redis.Addr)
	defer enqueuer.Close()

	svc := service.NewReviewService(reviews, host)
	srv := server.New(svc, enqueuer)

	httpServer := &http.Server{
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		Addr:              app.cfg.HTTP.ListenAddress,
		WriteTimeout:      app.cfg.HTTP.WriteTimeout,
		ReadTimeout:       app.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: app.cfg.HTTP.ReadTimeout,
		IdleTimeout:       app.cfg.HTTP.IdleTimeout,
		Handler:           srv.Router(),
	}

	worker, mux := tasks.NewServer(
		app.cfg.Redis.Addr,
		app.cfg.Redis.Concurrency,
		tasks.NewHandler(host, reviewer, reviews),
	)

	g, gCtx := errgroup.WithContext(ctx)
	runHTTPServer(gCtx, g, httpServer, app.cfg.HTTP.ShutdownTimeout)
	runWorker(gCtx, g, worker, mux)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}
	return nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}
