package handler

import (
	"hookharbor/internal/adapter/http/middleware"
	redisStore "hookharbor/internal/adapter/storage/redis"
	"hookharbor/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WebhookSvc     ports.WebhookService
	ReceiverSvc    ports.ReceiverService
	RequestSvc     ports.RequestService
	ContentSvc     ports.ContentService
	UploadSvc      ports.UploadService // nil = uploads disabled
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	IngestPrefix   string // path prefix for capture endpoints, e.g. "hook"
	MaxBodyBytes   int64  // ingestion body cap
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Capture endpoints (public, every HTTP method) ---
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	prefix := deps.IngestPrefix
	if prefix == "" {
		prefix = "hook"
	}
	receiverHandler := NewReceiverHandler(deps.ReceiverSvc, deps.Logger)
	ingest := []gin.HandlerFunc{middleware.MaxBodySize(maxBody), rl("ingest"), receiverHandler.Receive}
	r.Any("/"+prefix+"/:token", ingest...)
	r.Any("/"+prefix+"/:token/*rest", ingest...)

	// API v1 routes. The 1 MB body cap applies per group so the upload
	// route can carry its own larger limit.
	v1 := r.Group("/api/v1")
	jsonBody := middleware.MaxBodySize(1 << 20)

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth", jsonBody)
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	contentHandler := NewContentHandler(deps.ContentSvc)
	v1.GET("/content/:kind", contentHandler.Get)

	// --- JWT-authenticated routes (management) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	webhookHandler := NewWebhookHandler(deps.WebhookSvc)
	requestHandler := NewRequestHandler(deps.RequestSvc)

	webhooks := v1.Group("/webhooks", jsonBody, jwtAuth, rl("management"))
	{
		webhooks.POST("", webhookHandler.Create)
		webhooks.GET("", webhookHandler.List)
		webhooks.GET("/:id", webhookHandler.Get)
		webhooks.PATCH("/:id", webhookHandler.Update)
		webhooks.DELETE("/:id", webhookHandler.Delete)

		webhooks.GET("/:id/requests", requestHandler.List)
		webhooks.GET("/:id/requests/statistics", requestHandler.Statistics)
		webhooks.GET("/:id/requests/:requestId", requestHandler.Get)
		webhooks.DELETE("/:id/requests", requestHandler.RemoveAll)
	}

	v1.PUT("/content/:kind", jsonBody, jwtAuth, rl("management"), contentHandler.Upsert)

	if deps.UploadSvc != nil {
		uploadHandler := NewUploadHandler(deps.UploadSvc)
		v1.POST("/uploads", jwtAuth, rl("uploads"), middleware.MaxBodySize(6<<20), uploadHandler.Upload)
	}

	return r
}
