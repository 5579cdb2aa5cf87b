package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Articles       *handlers.ArticlesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Role checks live in the services;
// the route table only decides whether authentication is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	users := app.Group("/users", cfg.AuthMiddleware.Required)
	users.Get("/me", cfg.Users.Me)
	users.Post("/profile", cfg.Users.CompleteProfile)
	users.Get("/technicians", cfg.Users.ListTechnicians)
	users.Get("/", cfg.Users.ListAll)
	users.Patch("/:id/role", cfg.Users.SetRole)
	users.Delete("/:id", cfg.Users.Anonymize)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Required)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.ListAll)
	tickets.Get("/mine", cfg.Tickets.ListMine)
	tickets.Get("/search", cfg.Tickets.Search)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Patch("/:id", cfg.Tickets.Update)

	// Knowledge-base reads are open; writes authenticate and the
	// service enforces the technician/admin gate.
	kb := app.Group("/kb", cfg.AuthMiddleware.Optional)
	kb.Get("/", cfg.Articles.List)
	kb.Get("/search", cfg.Articles.Search)
	kb.Get("/categories/:category", cfg.Articles.ListByCategory)
	kb.Post("/", cfg.AuthMiddleware.Required, cfg.Articles.Create)
	kb.Patch("/:id", cfg.AuthMiddleware.Required, cfg.Articles.Update)
	kb.Delete("/:id", cfg.AuthMiddleware.Required, cfg.Articles.Delete)
}
