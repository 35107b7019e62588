package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recordgate/docs"
	"recordgate/internal/config"
	"recordgate/internal/database"
	"recordgate/internal/database/migration"
	handlers "recordgate/internal/http/handler"
	"recordgate/internal/http/middleware"
	"recordgate/internal/ledger"
	"recordgate/internal/ledger/boltjournal"
	"recordgate/internal/ledger/chain"
	"recordgate/internal/logger"
	"recordgate/internal/metrics"
	"recordgate/internal/otel"
	"recordgate/internal/repository/postgres"
	"recordgate/internal/service"
	"recordgate/internal/storage"
)

// multipartSlack covers form boundaries and headers around an upload that
// is exactly UploadMaxBytes long.
const multipartSlack = 64 * 1024

// @title RecordGate API
// @version 1.0
// @description Ledger-gated access to content-addressed records.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, zlog)
	if err != nil {
		zlog.Warn("tracing disabled", zap.Error(err))
	}

	// Registration directory (PostgreSQL, pooled via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zlog, cfg.Database.Host); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	store, err := openStore(cfg.MinIO, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize object storage", zap.Error(err))
	}

	accessMetrics, err := metrics.NewAccess(prometheus.DefaultRegisterer)
	if err != nil {
		zlog.Fatal("failed to register access metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		zlog.Fatal("failed to register http metrics", zap.Error(err))
	}

	ledgerBackend, closeLedger, err := openLedger(cfg.Ledger, accessMetrics.ObserveReceipt)
	if err != nil {
		zlog.Fatal("failed to open access ledger", zap.Error(err))
	}
	defer closeLedger()
	zlog.Info("access ledger ready",
		zap.String("backend", cfg.Ledger.Backend),
		zap.Duration("finality_delay", cfg.Ledger.FinalityDelay),
	)

	// Initialize repositories and services
	userRepo := postgres.NewUserPostgres(db)
	deps := handlers.Deps{
		Gateway:      service.NewAccessGateway(ledgerBackend, store, accessMetrics),
		Records:      service.NewRecordService(ledgerBackend, store, cfg.Ledger.AwaitTimeout),
		Users:        service.NewUserService(userRepo),
		FetchTimeout: cfg.FetchTimeout,
	}

	// Request values are kept by the ledger after the handler returns.
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.UploadMaxBytes + multipartSlack,
		Immutable:    true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID, stores it in context
	// and tags the request span
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(zlog))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, deps, zlog)

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

	addr := ":" + cfg.Port
	go func() {
		if err := app.Listen(addr); err != nil {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	zlog.Info("server started", zap.String("addr", addr))

	<-ctx.Done()
	zlog.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	if shutdownTracing != nil {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			zlog.Warn("tracing shutdown", zap.Error(err))
		}
	}
}

// openStore returns the MinIO content store, or an in-memory one when no
// endpoint is configured.
func openStore(cfg config.MinIOConfig, zlog *zap.Logger) (storage.ContentStore, error) {
	if cfg.Endpoint == "" {
		zlog.Warn("MINIO_ENDPOINT not set; record content is kept in memory and lost on restart")
		return storage.NewMemory(), nil
	}
	return storage.NewMinIO(cfg)
}

// openLedger builds the configured ledger backend. The returned func stops
// the sequencer and releases the journal.
func openLedger(cfg config.LedgerConfig, onFinalize func(ledger.Receipt)) (ledger.Ledger, func(), error) {
	opts := chain.Options{FinalityDelay: cfg.FinalityDelay, OnFinalize: onFinalize}

	switch cfg.Backend {
	case "memory":
		c, err := chain.New(opts)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	case "bolt":
		j, err := boltjournal.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		opts.Journal = j
		c, err := chain.New(opts)
		if err != nil {
			j.Close()
			return nil, nil, err
		}
		return c, func() {
			c.Close()
			j.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}
