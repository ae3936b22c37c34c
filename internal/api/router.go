package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/swiftcargo/movers-portal/docs"
	"github.com/swiftcargo/movers-portal/internal/api/handler"
	"github.com/swiftcargo/movers-portal/internal/api/middleware"
	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. Services are built by the
// caller so tests and cmd/server can wire different backends.
type Deps struct {
	Logger     zerolog.Logger
	Auth       ports.AuthService
	Shipments  ports.ShipmentService
	Bills      ports.DocumentService[domain.Bill]
	Bilties    ports.DocumentService[domain.Bilty]
	Quotations ports.DocumentService[domain.Quotation]
	Receipts   ports.DocumentService[domain.Receipt]
	Events     handler.EventDispatcher
	Content    handler.ContentSource
	Health     map[string]handler.PingFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(d.Logger))
	e.Use(echoprometheus.NewMiddleware("movers_http"))

	// --- Probes, metrics, docs (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	authn := middleware.Auth(d.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout, authn)
	v1.GET("/auth/me", authHandler.Me, authn)
	v1.POST("/auth/register", authHandler.Register, authn, adminOnly)

	// --- Public tracking and site content ---
	shipmentHandler := handler.NewShipmentHandler(d.Shipments)
	v1.GET("/track/:tracking_number", shipmentHandler.Track)

	site := handler.NewSiteHandler(d.Content)
	v1.GET("/site/services", site.Services)
	v1.GET("/site/services/:slug", site.Service)
	v1.GET("/site/branches", site.Branches)
	v1.GET("/site/testimonials", site.Testimonials)

	// --- Shipments ---
	shipments := v1.Group("/shipments", authn, staff)
	shipments.POST("", shipmentHandler.Create)
	shipments.GET("", shipmentHandler.List)
	shipments.GET("/:id", shipmentHandler.Get)
	shipments.PUT("/:id", shipmentHandler.Update)
	shipments.DELETE("/:id", shipmentHandler.Delete, adminOnly)

	// --- Stop events ---
	eventHandler := handler.NewEventHandler(d.Events)
	events := v1.Group("/events", authn, staff)
	events.POST("", eventHandler.Receive)
	events.POST("/batch", eventHandler.ReceiveBatch)

	// --- Documents (admin only) ---
	handler.NewDocumentHandler(d.Bills).Register(v1.Group("/bills", authn, adminOnly))
	handler.NewDocumentHandler(d.Bilties).Register(v1.Group("/bilties", authn, adminOnly))
	handler.NewDocumentHandler(d.Quotations).Register(v1.Group("/quotations", authn, adminOnly))
	handler.NewDocumentHandler(d.Receipts).Register(v1.Group("/receipts", authn, adminOnly))

	return e
}
