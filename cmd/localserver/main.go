package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskit/internal/config"
	"taskit/internal/filestore"
	"taskit/internal/localserver"
	"taskit/internal/sse"
)

func main() {
	cfg := config.FromEnv()
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := filestore.New(cfg.DataDir)
	if err != nil {
		logger.Fatal("open data dir", zap.Error(err))
	}

	events := sse.NewManager(logger)
	go events.Start(ctx)

	watcher, err := filestore.NewWatcher(store.Dir(), logger, func() {
		events.Emit(sse.Event{Type: sse.EventBoardChanged, Timestamp: time.Now()})
	})
	if err != nil {
		logger.Fatal("watch data dir", zap.Error(err))
	}
	go watcher.Run(ctx)

	router := localserver.BuildRouter(logger, store, events)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting local server", zap.String("addr", cfg.HTTPAddr), zap.String("data_dir", store.Dir()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := events.Shutdown(shutdownCtx); err != nil {
		logger.Error("sync shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
