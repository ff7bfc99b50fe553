package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/schedulrhq/schedulr/middleware"
	"github.com/gofiber/fiber/v2"
)

func AvailabilityRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	availability := api.Group("/availability", middleware.Protected())
	availability.Get("/me", handlers.GetMyAvailability)
	availability.Put("", handlers.SaveAvailability)
}
