package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hookharbor/config"
	httpHandler "hookharbor/internal/adapter/http/handler"
	pgStorage "hookharbor/internal/adapter/storage/postgres"
	redisStorage "hookharbor/internal/adapter/storage/redis"
	s3Storage "hookharbor/internal/adapter/storage/s3"
	"hookharbor/internal/core/ports"
	"hookharbor/internal/service"
	"hookharbor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting HookHarbor")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("HH_JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	requestRepo := pgStorage.NewRequestRepo(pool)
	statRepo := pgStorage.NewStatisticRepo(pool)
	contentRepo := pgStorage.NewContentRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc)
	webhookSvc := service.NewWebhookService(
		webhookRepo,
		requestRepo,
		statRepo,
		transactor,
		cfg.App.BaseURL,
		cfg.App.IngestPrefix,
		log,
	)
	receiverSvc := service.NewReceiverService(webhookRepo, requestRepo, statRepo, log)
	requestSvc := service.NewRequestService(webhookRepo, requestRepo, statRepo, transactor, log)
	contentSvc := service.NewContentService(contentRepo)

	// Uploads are optional: without a bucket the endpoint stays off.
	var uploadSvc ports.UploadService
	if cfg.S3.Bucket != "" {
		s3Client, err := s3Storage.NewClient(ctx, cfg.S3, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 client")
		}
		uploadSvc = service.NewUploadService(s3Storage.NewUploader(s3Client, cfg.S3))
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Uploads enabled")
	} else {
		log.Warn().Msg("No S3 bucket configured, uploads disabled")
	}

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WebhookSvc:     webhookSvc,
		ReceiverSvc:    receiverSvc,
		RequestSvc:     requestSvc,
		ContentSvc:     contentSvc,
		UploadSvc:      uploadSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		IngestPrefix:   cfg.App.IngestPrefix,
		MaxBodyBytes:   cfg.App.MaxBodyBytes,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
