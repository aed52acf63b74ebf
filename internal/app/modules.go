package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

// runHTTPServer serves until the group context is cancelled, then shuts down
// gracefully within the timeout.
func runHTTPServer(gCtx context.Context, g *errgroup.Group, httpServer *http.Server, shutdownTimeout time.Duration) {
	g.Go(func() error {
		slog.Info("http server started", slog.String("address", httpServer.Addr))

		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		slog.Info("http server stopped listening")
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		slog.Info("http server is shutting down", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown", slog.Any("error", err))
			return err
		}

		slog.Info("http server shut down gracefully")
		return nil
	})
}

// runWorker runs the asynq worker and stops it on group cancellation.
func runWorker(gCtx context.Context, g *errgroup.Group, worker *asynq.Server, mux *asynq.ServeMux) {
	g.Go(func() error {
		slog.Info("review worker started")
		return worker.Run(mux)
	})

	g.Go(func() error {
		<-gCtx.Done()

		slog.Info("review worker is shutting down")
		worker.Shutdown()
		return nil
	})
}
