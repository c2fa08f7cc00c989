package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kertas-app/kertas/internal/app"
	"github.com/kertas-app/kertas/internal/directory"
	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/export"
	"github.com/kertas-app/kertas/internal/invoice"
	"github.com/kertas-app/kertas/internal/numbering"
	"github.com/kertas-app/kertas/internal/observability"
	"github.com/kertas-app/kertas/internal/platform/cache"
	"github.com/kertas-app/kertas/internal/platform/db"
	"github.com/kertas-app/kertas/internal/quotation"
	"github.com/kertas-app/kertas/internal/rates"
	"github.com/kertas-app/kertas/internal/saver"
	"github.com/kertas-app/kertas/internal/submission"
	"github.com/kertas-app/kertas/jobs"
	"github.com/kertas-app/kertas/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	drafts := document.NewStore(redisClient, cfg.DraftTTL)

	directoryRepo := directory.NewRepository(dbpool)
	directoryCache := directory.NewCache(directoryRepo, redisClient, cfg.CatalogCacheTTL)
	resolver := directory.NewResolver(directoryCache)
	directoryHandler := directory.NewHandler(logger, directoryCache, resolver)

	ratesRepo := rates.NewRepository(dbpool)
	ratesService := rates.NewService(ratesRepo)
	ratesHandler := rates.NewHandler(logger, ratesService)

	numberingRepo := numbering.NewRepository(dbpool)
	numberingService := numbering.NewService(numberingRepo)
	numberingHandler := numbering.NewHandler(logger, numberingService)

	renderer, err := export.NewRenderer()
	if err != nil {
		logger.Error("parse document templates", slog.Any("error", err))
		os.Exit(1)
	}
	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.SubmitTimeout)
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

	statuses := saver.NewStatusStore(redisClient, cfg.DraftTTL)
	saves := saver.NewService(drafts, statuses, renderer, pdfClient, gateway, asynqClient, logger)

	quotationService := quotation.NewService(drafts, resolver, numberingService, saves)
	quotationHandler := quotation.NewHandler(logger, quotationService)
	invoiceService := invoice.NewService(drafts, resolver, numberingService, saves)
	invoiceHandler := invoice.NewHandler(logger, invoiceService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)
	reportHandler := report.NewHandler(pdfClient, logger)
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		QuotationHandler: quotationHandler,
		InvoiceHandler:   invoiceHandler,
		DirectoryHandler: directoryHandler,
		RatesHandler:     ratesHandler,
		NumberingHandler: numberingHandler,
		JobHandler:       jobHandler,
		ReportHandler:    reportHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
