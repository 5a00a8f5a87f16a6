package route

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http"
	"dispatch-service/src/internal/delivery/http/middleware"
)

type RouteConfig struct {
	App              *fiber.App
	VendorController *http.VendorController
	OwnerController  *http.OwnerController
	DriverController *http.DriverController
	WalletController *http.WalletController
	AdminController  *http.AdminController
	AuthMiddleware   fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	vendors := c.App.Group("/vendors/v1", middleware.RequireRole(middleware.RoleVendor))
	vendors.Post("/orders/quote", c.VendorController.Quote)
	vendors.Post("/orders", c.VendorController.Confirm)
	vendors.Get("/orders/:orderId", c.VendorController.Detail)
	vendors.Post("/orders/:orderId/cancel", c.VendorController.Cancel)
	vendors.Patch("/orders/:orderId/visibility", c.VendorController.SetVisibility)

	owners := c.App.Group("/owners/v1", middleware.RequireRole(middleware.RoleOwner))
	owners.Get("/orders", c.OwnerController.ListOpenOrders)
	owners.Post("/orders/:orderId/accept", c.OwnerController.Accept)
	owners.Post("/orders/:orderId/assign", c.OwnerController.AssignDriver)
	owners.Post("/orders/:orderId/release", c.OwnerController.Release)

	drivers := c.App.Group("/drivers/v1", middleware.RequireRole(middleware.RoleDriver))
	drivers.Post("/trips/start", c.DriverController.StartTrip)
	drivers.Post("/trips/end", c.DriverController.EndTrip)
	drivers.Put("/availability", c.DriverController.SetAvailability)

	wallets := c.App.Group("/wallets/v1",
		middleware.RequireRole(middleware.RoleOwner, middleware.RoleVendor, middleware.RoleAdmin))
	wallets.Post("/topup", c.WalletController.TopUp)
	wallets.Get("/statement", c.WalletController.Statement)

	admin := c.App.Group("/admin/v1", middleware.RequireRole(middleware.RoleAdmin))
	admin.Post("/policy/reload", c.AdminController.ReloadPolicy)
	admin.Post("/sweeps", c.AdminController.SweepNow)
}
