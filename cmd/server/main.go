package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/application/analytics"
	"github.com/logistics/backend/internal/application/costing"
	appidentity "github.com/logistics/backend/internal/application/identity"
	"github.com/logistics/backend/internal/application/ledger"
	"github.com/logistics/backend/internal/application/logistics"
	"github.com/logistics/backend/internal/application/notification"
	"github.com/logistics/backend/internal/application/workflow"
	"github.com/logistics/backend/internal/infrastructure/auth"
	"github.com/logistics/backend/internal/infrastructure/cache"
	"github.com/logistics/backend/internal/infrastructure/config"
	"github.com/logistics/backend/internal/infrastructure/logger"
	"github.com/logistics/backend/internal/infrastructure/migration"
	mailer "github.com/logistics/backend/internal/infrastructure/notification"
	"github.com/logistics/backend/internal/infrastructure/persistence"
	"github.com/logistics/backend/internal/infrastructure/storage"
	"github.com/logistics/backend/internal/infrastructure/telemetry"
	"github.com/logistics/backend/internal/interfaces/http/handler"
	"github.com/logistics/backend/internal/interfaces/http/middleware"
	"github.com/logistics/backend/internal/interfaces/http/router"
	"github.com/logistics/backend/migrations"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to set up telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	if providers.Logger != nil {
		log = telemetry.BridgeLogger(log, providers.Logger, cfg.Telemetry.ServiceName, zapcore.InfoLevel)
	}

	log.Info("Starting logistics backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.Database.AutoMigrate {
		if err := migrateUp(cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	idempotency, err := cache.NewIdempotencyStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	if closer, ok := idempotency.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	objects, err := newObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}

	metrics, err := telemetry.NewBusinessMetrics(otel.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	statusRepo := persistence.NewGormStatusRepository(db.DB)
	transitionStore := persistence.NewGormTransitionStore(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	requestRepo := persistence.NewGormRequestRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	calculationRepo := persistence.NewGormCalculationRepository(db.DB)

	// Services
	guard := access.NewGuard(cfg.Access.WarehouseVisibleStatuses)
	jwtService := auth.NewJWTService(cfg.JWT)

	registry := workflow.NewService(statusRepo, transitionStore, metrics, log)
	authService := appidentity.NewAuthService(userRepo, jwtService, log)
	tenantService := appidentity.NewTenantService(tenantRepo, registry, guard, log)
	userService := appidentity.NewUserService(userRepo, guard, log)

	shipmentService := logistics.NewShipmentService(shipmentRepo, attachmentRepo, objects, registry, guard, log)
	requestService := logistics.NewRequestService(logistics.RequestDeps{
		Requests:    requestRepo,
		Shipments:   shipmentRepo,
		Attachments: attachmentRepo,
		Users:       userRepo,
		Storage:     objects,
		Registry:    registry,
		Guard:       guard,
	}, log)
	attachmentService := logistics.NewAttachmentService(attachmentRepo, objects, shipmentService, requestService, guard, metrics, log)

	ledgerService := ledger.NewService(ledger.Deps{
		Entries:     ledgerRepo,
		Articles:    articleRepo,
		Shipments:   shipmentRepo,
		Requests:    requestRepo,
		Users:       userRepo,
		Idempotency: idempotency,
		Guard:       guard,
		Metrics:     metrics,
	}, ledger.Config{
		MaxBasisDepth:  cfg.Access.MaxBasisDepth,
		IdempotencyTTL: cfg.Idempotency.TTL,
	}, log)
	articleService := ledger.NewArticleService(articleRepo, guard, log)
	costingService := costing.NewService(calculationRepo, shipmentRepo, requestRepo, userRepo, guard, metrics, log)
	analyticsService := analytics.NewService(shipmentRepo, requestRepo, ledgerService, guard, log)
	mailService := notification.NewService(mailer.NewSender(cfg.Mail, log), cfg.Mail.DefaultSenderName, log)

	// HTTP
	middleware.SetupValidator()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Users = userRepo
	jwtConfig.Logger = log

	engine, releaseEngine, err := router.NewEngine(router.EngineConfig{
		HTTP:      cfg.HTTP,
		Telemetry: cfg.Telemetry,
		Logger:    log,
		Meter:     otel.Meter(cfg.Telemetry.ServiceName),
		JWT:       jwtConfig,
	}, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Tenant:      handler.NewTenantHandler(tenantService),
		User:        handler.NewUserHandler(userService),
		Shipment:    handler.NewShipmentHandler(shipmentService, attachmentService),
		Request:     handler.NewRequestHandler(requestService, attachmentService),
		Status:      handler.NewStatusHandler(registry, guard),
		Ledger:      handler.NewLedgerHandler(ledgerService, guard),
		Article:     handler.NewArticleHandler(articleService),
		Calculation: handler.NewCalculationHandler(costingService, ledgerService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		Mail:        handler.NewMailHandler(mailService, guard),
		System:      handler.NewSystemHandler(version, db, redisPinger(cfg, idempotency)),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	defer releaseEngine()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateUp applies the embedded migrations over a dedicated connection
func migrateUp(dbCfg config.DatabaseConfig, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

func newObjectStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (logistics.ObjectStorage, error) {
	if cfg.Driver == "s3" {
		s3, err := storage.NewS3ObjectStorage(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	log.Warn("Using in-memory object storage; uploads are lost on restart")
	return storage.NewMemoryObjectStorage(), nil
}

// redisPinger returns nil when Redis is disabled so /health reports it as
// such. An enabled Redis that the store fell back from reports down.
func redisPinger(cfg *config.Config, store any) handler.Pinger {
	if !cfg.Redis.Enabled {
		return nil
	}
	if p, ok := store.(handler.Pinger); ok {
		return p
	}
	return handler.PingerFunc(func(context.Context) error {
		return errors.New("redis unavailable, idempotency store fell back to memory")
	})
}
