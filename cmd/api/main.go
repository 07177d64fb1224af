package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	json "github.com/goccy/go-json"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fileapi/docs"
	"fileapi/internal/config"
	handlers "fileapi/internal/http/handler"
	"fileapi/internal/http/middleware"
	"fileapi/internal/logger"
	"fileapi/internal/model"
	"fileapi/internal/otel"
	"fileapi/internal/service"
	"fileapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title File API
// @version 1.0
// @description CRUD over raw, JSON and CSV files kept in a backing store.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Location())
	defer log.Sync()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Backing store shared by every kind
	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	services := make([]service.FileService, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		svc, err := service.NewFileService(k, store, log)
		if err != nil {
			log.Fatal("failed to build service", zap.String("kind", string(k)), zap.Error(err))
		}
		services = append(services, svc)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(promMiddleware.Handler())
	// JSON access log for every request
	app.Use(middleware.Logger(log))

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

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

	handlers.RegisterRoutes(app, store, services...)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server starting",
		zap.String("addr", addr),
		zap.String("storage_driver", cfg.Storage.Driver),
	)
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}
	if err := closeStore(); err != nil {
		log.Error("storage close failed", zap.Error(err))
	}
}
