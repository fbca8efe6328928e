package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/internal/api/http/handlers"
	"github.com/spec-kit/ordering-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Protected routes authenticate, then
// check the role, before the handler validates any input.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/sign-up", cfg.Users.SignUp)
	api.Post("/sign-in", cfg.Users.SignIn)

	authn := cfg.AuthMiddleware.Handle
	owner := auth.RequireOwner()
	customer := auth.RequireCustomer()

	api.Get("/categories", cfg.Catalog.ListCategories)
	api.Post("/categories", authn, owner, cfg.Catalog.CreateCategory)
	api.Patch("/categories/:categoryId", authn, owner, cfg.Catalog.UpdateCategory)
	api.Delete("/categories/:categoryId", authn, owner, cfg.Catalog.DeleteCategory)

	api.Get("/categories/:categoryId/menus", cfg.Catalog.ListMenus)
	api.Get("/categories/:categoryId/menus/:menuId", cfg.Catalog.GetMenu)
	api.Post("/categories/:categoryId/menus", authn, owner, cfg.Catalog.CreateMenu)
	api.Patch("/categories/:categoryId/menus/:menuId", authn, owner, cfg.Catalog.UpdateMenu)
	api.Delete("/categories/:categoryId/menus/:menuId", authn, owner, cfg.Catalog.DeleteMenu)

	api.Post("/orders", authn, customer, cfg.Orders.PlaceOrder)
	api.Get("/orders/customer", authn, customer, cfg.Orders.ListCustomerOrders)
	api.Get("/orders/owner", authn, owner, cfg.Orders.ListAllOrders)
	api.Patch("/orders/:orderId/status", authn, owner, cfg.Orders.UpdateStatus)
}
