package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"coverflow/auth"
	"coverflow/config"
	"coverflow/delivery"
	"coverflow/mail"
	"coverflow/record"
	"coverflow/render"
	"coverflow/storage"
	"coverflow/validate"
)

func main() {
	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("bootstrap logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	var store storage.API
	if cfg.Storage.Check() == nil {
		client, err := storage.NewClient(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
		if err != nil {
			logger.Fatal("bootstrap object store", zap.Error(err))
		}
		store = client
	} else {
		logger.Warn("object store unconfigured, upload stage will fail per request")
	}

	var records record.API
	if cfg.Record.Check() == nil {
		client, err := record.NewClient(cfg.Record.APIKey, cfg.Record.BaseID)
		if err != nil {
			logger.Fatal("bootstrap record store", zap.Error(err))
		}
		records = client
	} else {
		logger.Warn("record store unconfigured, attach stage will fail per request")
	}

	mailer := mail.NewMailer(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Secure,
		cfg.Mail.From, cfg.Mail.AlertTo, logger,
	)

	var renderer render.Renderer
	switch cfg.RenderStrategy {
	case "coordinate":
		renderer = render.NewCoordinateRenderer()
	default:
		renderer = render.NewHTMLRenderer()
	}

	validator := validate.New()
	orchestrator := delivery.NewOrchestrator(validator, renderer, store, records, mailer, cfg, logger)
	queue := delivery.NewQueue(cfg.QueueSize, orchestrator, logger)

	server := &Server{
		validator:    validator,
		orchestrator: orchestrator,
		queue:        queue,
		records:      records,
		auth:         auth.NewService(cfg.JWTSecret, cfg.APIKeyHash),
		cfg:          cfg,
		log:          logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := queue.Run(ctx, cfg.Workers); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("delivery workers stopped", zap.Error(err))
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("cover-sheet service listening", zap.String("addr", cfg.ListenAddr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server", zap.Error(err))
	}
}
