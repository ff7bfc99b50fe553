package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/schedulrhq/schedulr/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/users", handlers.ListUsers)
	admin.Patch("/users/:userId/toggle", handlers.ToggleUserActive)
	admin.Get("/subscriptions", handlers.ListSubscriptions)
	admin.Get("/stats", handlers.GetAdminStats)
}
