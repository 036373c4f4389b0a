package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"

	"github.com/pdfcourier/api/docs"
	"github.com/pdfcourier/api/internal/batch"
	"github.com/pdfcourier/api/internal/client"
	"github.com/pdfcourier/api/internal/config"
	"github.com/pdfcourier/api/internal/delivery"
	"github.com/pdfcourier/api/internal/handler"
	"github.com/pdfcourier/api/internal/middleware"
	"github.com/pdfcourier/api/internal/model"
	"github.com/pdfcourier/api/internal/registry"
	"github.com/pdfcourier/api/internal/service"
	"github.com/pdfcourier/api/internal/telemetry"
	"github.com/pdfcourier/api/internal/worker"
	ws "github.com/pdfcourier/api/internal/websocket"
)

// @title          PDF Courier API
// @version        1.0
// @description    Batch URL to PDF conversion and delivery service.
// @host           localhost:8000
// @BasePath       /
// @schemes        http https
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
// @description    Enter your bearer token in the format **Bearer &lt;token&gt;**
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Configure Swagger host/scheme based on environment
	if cfg.Server.ApiDomain != "" {
		docs.SwaggerInfo.Host = cfg.Server.ApiDomain
		docs.SwaggerInfo.Schemes = []string{"https"}
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
		docs.SwaggerInfo.Schemes = []string{"http"}
	}

	// Initialize Redis client (rate limiting)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available, rate limiting disabled: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize job registry with its retention janitor
	jobRegistry := registry.New()
	go jobRegistry.RunJanitor(
		time.Duration(cfg.Jobs.SweepMinutes)*time.Minute,
		time.Duration(cfg.Jobs.RetentionHours)*time.Hour,
	)

	// Initialize conversion clients
	rendererClient := client.NewRenderClient(&cfg.Renderer)
	if !rendererClient.IsConfigured() {
		log.Println("Warning: renderer API key not set, sending unauthenticated requests")
	}
	fetcher := client.NewFetcher(&cfg.Fetch)
	scheduler := batch.NewScheduler(rendererClient, fetcher, &cfg.Batch)

	// Initialize S3 storage client (optional - share delivery needs it)
	var storageClient *client.S3Client
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		storageClient, err = client.NewS3Client(&cfg.Storage)
		if err != nil {
			log.Printf("Warning: S3 client not initialized: %v", err)
		}
	} else {
		log.Println("Info: S3 storage not configured, share delivery disabled")
	}

	// Initialize SMTP mailer (optional - email delivery needs it)
	var mailer *client.SMTPMailer
	if cfg.Mail.Host != "" {
		mailer, err = client.NewSMTPMailer(&cfg.Mail)
		if err != nil {
			log.Printf("Warning: SMTP mailer not initialized: %v", err)
		}
	} else {
		log.Println("Info: SMTP not configured, email delivery disabled")
	}

	// Register whichever delivery strategies are configured
	dispatcher := delivery.NewDispatcher()
	if mailer != nil {
		dispatcher.Register(model.StrategyEmail, delivery.NewMailBundle(mailer, &cfg.Mail))
	}
	if storageClient != nil {
		dispatcher.Register(model.StrategyShare, delivery.NewShareFolder(storageClient, &cfg.Storage))
	}

	// Staging directory for in-flight artifacts
	if err := os.MkdirAll(cfg.Jobs.StagingDir, 0o755); err != nil {
		log.Fatalf("Failed to create staging directory: %v", err)
	}

	// Initialize worker, service, handlers
	convertWorker := worker.NewConvertWorker(jobRegistry, scheduler, dispatcher, hub, cfg.Jobs.StagingDir)
	convertService := service.NewConvertService(jobRegistry, convertWorker, dispatcher)
	convertHandler := handler.NewConvertHandler(convertService, validate)
	authHandler := handler.NewAuthHandler(cfg.JWT.Secret)

	// Initialize auth middleware
	var apiAuthMiddleware fiber.Handler
	switch {
	case cfg.Gateway.Enabled:
		// Behind Traefik: auth is handled by ForwardAuth, read X-User-* headers
		log.Println("Info: Gateway mode enabled — using header-based auth")
		apiAuthMiddleware = middleware.GatewayAuthMiddleware()
	case cfg.JWT.Secret != "":
		apiAuthMiddleware = middleware.NewAuthMiddleware(cfg.JWT.Secret).Authenticate()
	default:
		log.Println("Warning: JWT_SECRET not set, API runs open")
		apiAuthMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // 10MB
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body} ${reqHeaders}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"renderer": rendererClient.IsConfigured(),
				"storage":  storageClient != nil,
				"mail":     mailer != nil,
				"auth":     cfg.Gateway.Enabled || cfg.JWT.Secret != "",
			},
		})
	})

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(telemetry.Handler()))

	// Swagger UI
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	// ForwardAuth verification endpoint (internal, called by Traefik)
	app.Get("/auth/verify", authHandler.Verify)

	// API routes
	api := app.Group("/api", apiAuthMiddleware)
	api.Post("/convert", rateLimiter.ConvertLimit(cfg.RateLimit.ConvertPerHour), convertHandler.Submit)
	api.Get("/convert/status/:jobId", convertHandler.Status)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		jobID := c.Params("jobId")
		hub.HandleConnection(c, jobID)
	}))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
