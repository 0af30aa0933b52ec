package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"fingerprintapi/docs"
	"fingerprintapi/internal/config"
	"fingerprintapi/internal/database"
	"fingerprintapi/internal/database/migration"
	handlers "fingerprintapi/internal/http/handler"
	"fingerprintapi/internal/http/middleware"
	"fingerprintapi/internal/otel"
	"fingerprintapi/internal/repository/postgres"
	"fingerprintapi/internal/service"
	"fingerprintapi/internal/storage"
)

// @title Fingerprint Record API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing; a disabled or failed exporter degrades to noop.
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create schema on first boot; a no-op when tables already exist.
	if err := prepareDatabase(ctx, db, cfg); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	objStore, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize file storage: %v", err)
	}

	// Initialize repositories and services
	personRepo := postgres.NewPersonPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	personSvc := service.NewPersonService(personRepo, auditRepo)
	fileSvc := service.NewFileService(objStore, cfg.Files.PublicPrefix)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	// Request metrics plus Go runtime/process collectors on /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, personSvc, fileSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Serve the app until SIGINT/SIGTERM, then drain in-flight requests.
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case sig := <-sigCh:
		log.Printf(`{"level":"info","msg":"shutting_down","signal":%q}`, sig.String())
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf(`{"level":"error","msg":"shutdown_failed","error":%q}`, err.Error())
		}
	}
}

// prepareDatabase runs the idempotent startup migration.
func prepareDatabase(ctx context.Context, db *sql.DB, cfg *config.AppConfig) error {
	return migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host)
}

// newStorage selects the file backend from configuration: local disk by
// default, S3-compatible object storage when FILES_BACKEND=s3.
func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	if cfg.Files.Backend == "s3" {
		return storage.NewMinIO(cfg.MinIO)
	}
	return storage.NewLocal(cfg.Files.Root)
}
