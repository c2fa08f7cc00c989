package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/kertas-app/kertas/internal/app"
	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/export"
	jobmetrics "github.com/kertas-app/kertas/internal/jobs"
	"github.com/kertas-app/kertas/internal/platform/cache"
	"github.com/kertas-app/kertas/internal/saver"
	"github.com/kertas-app/kertas/internal/submission"
	"github.com/kertas-app/kertas/jobs"
	"github.com/kertas-app/kertas/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	renderer, err := export.NewRenderer()
	if err != nil {
		logger.Error("parse document templates", slog.Any("error", err))
		os.Exit(1)
	}
	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.SubmitTimeout)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}
	gateway := submission.NewGateway(cfg.SubmitEndpoint, cfg.SubmitTimeout)

	asynqClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	drafts := document.NewStore(redisClient, cfg.DraftTTL)
	statuses := saver.NewStatusStore(redisClient, cfg.DraftTTL)
	saves := saver.NewService(drafts, statuses, renderer, pdfClient, gateway, asynqClient, logger)
	saveJob := saver.NewJob(saves, jobmetrics.NewMetrics(nil), logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeDocumentSave, Handler: saveJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
