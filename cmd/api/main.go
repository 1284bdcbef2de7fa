package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskit/internal/config"
	"taskit/internal/db"
	"taskit/internal/httpserver"
	"taskit/internal/oplog"
	categoryrepo "taskit/internal/repository/category"
	taskrepo "taskit/internal/repository/task"
	tokenrepo "taskit/internal/repository/token"
	userrepo "taskit/internal/repository/user"
	accountsvc "taskit/internal/service/account"
	boardsvc "taskit/internal/service/board"
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

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	logStore := oplog.NewPostgres(dbpool)
	recorder := oplog.NewRecorder(logger, logStore)

	syncManager := sse.NewManager(logger)
	go syncManager.Start(ctx)

	categoryRepo := categoryrepo.NewPostgres(dbpool)
	taskRepo := taskrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	boardService := boardsvc.New(categoryRepo, taskRepo, recorder, syncManager)
	accountService := accountsvc.New(userRepo, tokenRepo)

	sweeper := cron.New()
	_, err = sweeper.AddFunc("@daily", func() {
		cutoff := time.Now().Add(-cfg.LogRetention)
		sweepCtx, sweepCancel := context.WithTimeout(context.Background(), time.Minute)
		defer sweepCancel()
		removed, err := logStore.DeleteOlderThan(sweepCtx, cutoff)
		if err != nil {
			logger.Warn("log retention sweep failed", zap.Error(err))
			return
		}
		logger.Info("log retention sweep", zap.Int64("removed", removed))
	})
	if err != nil {
		logger.Fatal("schedule log retention sweep", zap.Error(err))
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Board:   boardService,
		Account: accountService,
		Sync:    syncManager,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
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
	if err := syncManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("sync shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
