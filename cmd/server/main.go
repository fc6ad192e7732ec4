package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	catalogapp "github.com/erp/storesync/internal/application/catalog"
	integrationapp "github.com/erp/storesync/internal/application/integration"
	partnerapp "github.com/erp/storesync/internal/application/partner"
	tradeapp "github.com/erp/storesync/internal/application/trade"
	"github.com/erp/storesync/internal/infrastructure/auth"
	"github.com/erp/storesync/internal/infrastructure/cache"
	"github.com/erp/storesync/internal/infrastructure/config"
	"github.com/erp/storesync/internal/infrastructure/ecommerce"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/infrastructure/persistence"
	"github.com/erp/storesync/internal/infrastructure/telemetry"
	"github.com/erp/storesync/internal/interfaces/http/handler"
	"github.com/erp/storesync/internal/interfaces/http/middleware"
	"github.com/erp/storesync/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	production := cfg.App.Env == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting storesync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.DBLogFullSQL)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	store, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!production),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	shopifyConfig := ecommerce.NewShopifyConfig()
	shopifyConfig.APIVersion = cfg.Shopify.APIVersion
	shopifyConfig.Timeout = cfg.Shopify.Timeout
	shopifyConfig.RequestsPerSecond = cfg.Shopify.RequestsPerSecond
	shopifyConfig.PageSize = cfg.Shopify.PageSize
	shopify, err := ecommerce.NewShopifyClient(shopifyConfig, log)
	if err != nil {
		log.Fatal("Invalid Shopify configuration", zap.Error(err))
	}

	shiprocketConfig := ecommerce.NewShiprocketConfig()
	shiprocketConfig.BaseURL = cfg.Shiprocket.BaseURL
	shiprocketConfig.Timeout = cfg.Shiprocket.Timeout
	shiprocketConfig.TokenTTL = cfg.Shiprocket.TokenTTL
	shiprocketConfig.PickupLocation = cfg.Shiprocket.PickupLocation
	shiprocket, err := ecommerce.NewShiprocketClient(shiprocketConfig, store, log)
	if err != nil {
		log.Fatal("Invalid Shiprocket configuration", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)

	// Guards and confirmation codes
	syncGuard := cache.NewSyncGuard(store, cfg.Sync.GuardTTL, log)
	confirmationGate := cache.NewConfirmationGate(store, cache.NewLogCodeSender(log), cfg.OTP.TTL, cfg.OTP.Length, log)

	// Application services
	connectionService := integrationapp.NewConnectionService(connectionRepo, shopify, log)
	reporter := integrationapp.NewReporter(syncRunRepo, log)
	reconciler := integrationapp.NewReconciler(shopify, connectionService, integrationapp.Stores{
		Products:   productRepo,
		Categories: categoryRepo,
		Vendors:    vendorRepo,
		Customers:  customerRepo,
		Orders:     orderRepo,
	}, log)
	pusher := integrationapp.NewPushCoordinator(shopify, connectionService, productRepo, customerRepo, cfg.Sync.BatchSize, log)
	syncService := integrationapp.NewSyncService(syncGuard, reconciler, pusher, reporter, log)

	productService := catalogapp.NewProductService(productRepo, categoryRepo, vendorRepo, confirmationGate, log)
	customerService := partnerapp.NewCustomerService(customerRepo, confirmationGate, log)
	orderService := tradeapp.NewOrderService(orderRepo, connectionService, shiprocket, log)

	checks := map[string]handler.HealthCheck{
		"database": db.PingContext,
	}
	if redisStore, ok := store.(*cache.RedisStore); ok {
		checks["redis"] = func(ctx context.Context) error {
			return redisStore.Client().Ping(ctx).Err()
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}

	engine, err := router.NewEngine(router.Options{
		HTTP:        cfg.HTTP,
		Telemetry:   cfg.Telemetry,
		Production:  production,
		JWTService:  auth.NewJWTService(cfg.JWT),
		Logger:      log,
		RateLimiter: limiter,
	}, router.Handlers{
		System:     handler.NewSystemHandler(cfg.App.Name, version, checks),
		Product:    handler.NewProductHandler(productService),
		Customer:   handler.NewCustomerHandler(customerService),
		Order:      handler.NewOrderHandler(orderService),
		Sync:       handler.NewSyncHandler(syncService, reporter),
		Connection: handler.NewConnectionHandler(connectionService),
		OTP:        handler.NewOTPHandler(confirmationGate),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}
