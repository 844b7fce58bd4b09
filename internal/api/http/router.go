package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homebuilt/warranty-service/internal/api/http/handlers"
	"github.com/homebuilt/warranty-service/internal/auth"
	"github.com/homebuilt/warranty-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Claims         *handlers.ClaimsHandler
	Dashboard      *handlers.DashboardHandler
	Reference      *handlers.ReferenceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	protected.Get("/auth/me", cfg.Auth.Me)

	claims := protected.Group("/claims")
	claims.Post("/", auth.RequireRole(domain.AccountRoleHomeowner, domain.AccountRoleStaff, domain.AccountRoleAdmin), cfg.Claims.SubmitClaim)
	claims.Get("/", cfg.Claims.ListClaims)
	claims.Post("/bulk-delete", auth.RequireRole(domain.AccountRoleAdmin), cfg.Claims.BulkDelete)
	claims.Get("/:id", cfg.Claims.GetClaim)
	claims.Post("/:id/comments", cfg.Claims.AddComment)
	claims.Post("/:id/proposed-dates/:index/respond", cfg.Claims.RespondToProposedDate)

	internal := auth.RequireInternal()
	claims.Patch("/:id/status", internal, cfg.Claims.UpdateStatus)
	claims.Patch("/:id/classification", internal, cfg.Claims.Classify)
	claims.Post("/:id/evaluate", internal, cfg.Claims.Evaluate)
	claims.Patch("/:id/reviewed", internal, cfg.Claims.SetReviewed)
	claims.Post("/:id/proposed-dates", internal, cfg.Claims.ProposeDate)
	claims.Get("/:id/messages", internal, cfg.Claims.ListMessages)
	claims.Post("/:id/messages", internal, cfg.Claims.RecordMessage)
	claims.Get("/:id/service-orders", internal, cfg.Claims.ServiceOrders)

	insight := auth.RequireRole(domain.AccountRoleStaff, domain.AccountRoleAdmin, domain.AccountRoleBuilder)
	protected.Get("/dashboard/metrics", insight, cfg.Dashboard.Metrics)
	protected.Get("/builder-groups", insight, cfg.Reference.ListBuilderGroups)
	protected.Get("/homeowners", internal, cfg.Reference.ListHomeowners)
}
