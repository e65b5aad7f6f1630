package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/config"
	"github.com/pageza/weekplate/backend/internal/database"
	"github.com/pageza/weekplate/backend/internal/logger"
	"github.com/pageza/weekplate/backend/internal/metrics"
	"github.com/pageza/weekplate/backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: !cfg.Environment.IsProduction(),
	})
	defer func() { _ = logr.Sync() }()

	db, err := database.Open(cfg, logr)
	if err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db, logr); err != nil {
		logr.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb, err := database.NewRedisClient(cfg, logr)
	if err != nil {
		logr.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	storage, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		logr.Fatal("Failed to configure photo storage", zap.Error(err))
	}
	if storage == nil {
		logr.Warn("S3_BUCKET_NAME not set, recipe photo uploads are disabled")
	} else if err := storage.SetupBucketPolicy(context.Background()); err != nil {
		logr.Warn("Failed to apply public-read policy for recipe photos, photo URLs may be forbidden",
			zap.String("bucket", storage.BucketName), zap.Error(err))
	}

	srv := server.New(cfg, server.Dependencies{
		DB:      db,
		Redis:   rdb,
		Storage: storage,
		Metrics: metrics.New(),
	}, logr)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logr.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logr.Info("Received signal", zap.String("signal", sig.String()))
	}

	logr.Info("Shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logr.Error("Server shutdown error", zap.Error(err))
		return
	}
	logr.Info("Server stopped")
}
