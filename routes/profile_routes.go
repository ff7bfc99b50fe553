package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/schedulrhq/schedulr/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", handlers.GetProfile)
	profile.Put("/me", handlers.UpdateProfile)

	subscription := api.Group("/subscription", middleware.Protected())
	subscription.Get("", handlers.GetMySubscription)
	subscription.Post("/upgrade", handlers.UpgradePlan)
}
