package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/schedulrhq/schedulr/middleware"
	"github.com/gofiber/fiber/v2"
)

func EventTypeRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	eventTypes := api.Group("/event-types", middleware.Protected())
	eventTypes.Get("", handlers.GetMyEventTypes)
	eventTypes.Post("", handlers.CreateEventType)
	eventTypes.Put("/:eventTypeId", handlers.UpdateEventType)
	eventTypes.Patch("/:eventTypeId/toggle", handlers.ToggleEventType)
	eventTypes.Delete("/:eventTypeId", handlers.DeleteEventType)
}
