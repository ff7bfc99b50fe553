package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/schedulrhq/schedulr/middleware"
	"github.com/gofiber/fiber/v2"
)

func IntegrationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	integrations := api.Group("/integrations", middleware.Protected())
	integrations.Get("", handlers.GetMyIntegrations)
	integrations.Post("/:provider", handlers.ConnectIntegration)
	integrations.Delete("/:provider", handlers.DisconnectIntegration)
}
