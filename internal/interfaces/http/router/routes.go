package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/storesync/internal/infrastructure/auth"
	"github.com/erp/storesync/internal/infrastructure/config"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/interfaces/http/handler"
	"github.com/erp/storesync/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers of the API
type Handlers struct {
	System     *handler.SystemHandler
	Product    *handler.ProductHandler
	Customer   *handler.CustomerHandler
	Order      *handler.OrderHandler
	Sync       *handler.SyncHandler
	Connection *handler.ConnectionHandler
	OTP        *handler.OTPHandler
}

// Options configure the engine's middleware chain
type Options struct {
	HTTP        config.HTTPConfig
	Telemetry   config.TelemetryConfig
	Production  bool
	JWTService  *auth.JWTService
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
}

// NewEngine builds the gin engine: global middleware, the probe endpoints
// and the authenticated /api/v1 routes
func NewEngine(opts Options, h Handlers) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(
		logger.Recovery(opts.Logger),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: opts.Telemetry.ServiceName,
			Enabled:     opts.Telemetry.Enabled,
			SkipPaths:   []string{"/health", "/ready"},
		}),
		logger.GinMiddleware(opts.Logger),
		middleware.Secure(opts.Production),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(opts.HTTP)),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	apiMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(middleware.DefaultJWTConfig(opts.JWTService, opts.Logger)),
		middleware.TracingAttributeInjector(),
	}
	if opts.RateLimiter != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(opts.RateLimiter))
	}

	r := NewRouter(engine, WithAPIMiddleware(apiMiddleware...))
	for _, group := range domainGroups(h) {
		r.Register(group)
		opts.Logger.Debug("Registered route group",
			zap.String("group", group.Name()),
			zap.String("prefix", group.Prefix()),
		)
	}
	r.Setup()
	return engine, nil
}

func domainGroups(h Handlers) []*DomainGroup {
	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	catalog := NewDomainGroup("catalog", "/catalog").
		GET("/products", h.Product.List).
		POST("/products", h.Product.Create).
		GET("/products/:id", h.Product.GetByID).
		PUT("/products/:id", h.Product.Update).
		DELETE("/products/:id", h.Product.Delete).
		GET("/categories", h.Product.ListCategories).
		GET("/vendors", h.Product.ListVendors)

	partner := NewDomainGroup("partner", "/partner").
		GET("/customers", h.Customer.List).
		POST("/customers", h.Customer.Create).
		GET("/customers/:id", h.Customer.GetByID).
		PUT("/customers/:id", h.Customer.Update).
		DELETE("/customers/:id", h.Customer.Delete)

	trade := NewDomainGroup("trade", "/trade").
		GET("/orders", h.Order.List).
		GET("/orders/:id", h.Order.GetByID).
		PUT("/orders/:id/erp-status", h.Order.UpdateErpStatus).
		POST("/orders/:id/shipment", h.Order.CreateShipment)

	sync := NewDomainGroup("sync", "/sync").
		GET("/runs", h.Sync.ListRuns).
		GET("/runs/:id", h.Sync.GetRun).
		GET("/runs/:id/failures.xlsx", h.Sync.ExportFailures).
		POST("/:kind/pull", h.Sync.Pull).
		POST("/:kind/push", h.Sync.Push).
		POST("/:kind/push/:id", h.Sync.PushOne)

	integration := NewDomainGroup("integration", "/integration")
	integration.Group("connection", "/connection").
		GET("", h.Connection.Get).
		PUT("", h.Connection.Update).
		POST("/test", h.Connection.Test)

	otp := NewDomainGroup("otp", "").
		POST("/deletion-otp", h.OTP.Issue)

	return []*DomainGroup{system, catalog, partner, trade, sync, integration, otp}
}
