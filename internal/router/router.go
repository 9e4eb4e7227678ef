// Package router maps HTTP routes to handlers and declares, in one place,
// which roles may reach each route.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/veriflow/field-verification-api/internal/config"
	"github.com/veriflow/field-verification-api/internal/handler"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
)

// Deps carries everything route registration needs. All fields are
// required except Redis, which may be nil to run without rate limiting and
// caching.
type Deps struct {
	Cfg         config.Config
	Redis       *redis.Client
	Auth        *handler.AuthHandler
	Cases       *handler.CaseHandler
	Clients     *handler.ClientHandler
	Products    *handler.ProductHandler
	Invoices    *handler.InvoiceHandler
	Commissions *handler.CommissionHandler
	Attachments *handler.AttachmentHandler
	Dashboard   *handler.DashboardHandler
	Audit       *handler.AuditHandler
}

// Register wires every route onto the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api/v1")

	// Unauthenticated: login (rate limited), token refresh and pre-login
	// device registration.
	authGroup := api.Group("/auth")
	authGroup.POST("/login", d.Auth.Login,
		middleware.LoginRateLimit(config.LoadRateLimitConfig(), d.Redis))
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/device/register", d.Auth.RegisterDevice)

	// Everything below requires a valid access token.
	protected := api.Group("", middleware.JWTAuth(d.Cfg.AccessSecret))

	protected.POST("/auth/logout", d.Auth.Logout)
	protected.GET("/me", d.Auth.Me)

	protected.GET("/dashboard", d.Dashboard.Summary,
		middleware.ResponseCache(config.LoadCacheConfig(), d.Redis))

	// Role sets reused below. Write access to master data stays with the
	// back office; BANK can raise and follow cases for its own workload.
	backOffice := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	caseIntake := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleBank)
	fieldOnly := middleware.RequireRole(model.RoleField)

	// Cases
	protected.POST("/cases", d.Cases.Create, caseIntake)
	protected.GET("/cases", d.Cases.List)
	protected.GET("/cases/:id", d.Cases.Get)
	protected.POST("/cases/:id/assign", d.Cases.Assign, backOffice)
	protected.PATCH("/cases/:id/status", d.Cases.UpdateStatus, fieldOnly)

	// Attachments
	protected.POST("/cases/:id/attachments", d.Attachments.Upload,
		middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleField))
	protected.GET("/cases/:id/attachments", d.Attachments.ListByCase)
	protected.GET("/attachments/:id", d.Attachments.Download)

	// Clients and products
	protected.POST("/clients", d.Clients.Create, backOffice)
	protected.PUT("/clients/:id", d.Clients.Update, backOffice)
	protected.GET("/clients", d.Clients.List)
	protected.GET("/clients/:id", d.Clients.Get)
	protected.GET("/clients/:id/products", d.Products.ListByClient)
	protected.POST("/products", d.Products.Create, middleware.RequireRole(model.RoleAdmin))
	protected.GET("/products/:id", d.Products.Get)

	// Billing
	protected.POST("/invoices", d.Invoices.Generate, backOffice)
	protected.GET("/invoices", d.Invoices.List, backOffice)
	protected.GET("/invoices/:id", d.Invoices.Get, backOffice)
	protected.POST("/commissions", d.Commissions.Create, backOffice)
	protected.PATCH("/commissions/:id/paid", d.Commissions.MarkPaid, backOffice)
	protected.GET("/commissions", d.Commissions.List,
		middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleField))

	// Audit trail, read-only, admin only.
	protected.GET("/audit", d.Audit.List, middleware.RequireRole(model.RoleAdmin))
}
