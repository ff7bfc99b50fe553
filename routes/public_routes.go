package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/gofiber/fiber/v2"
)

// Public booking surface - no authentication. These power the guest-facing
// booking page for a host handle.
func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	public := api.Group("/public")
	public.Get("/:username", handlers.GetPublicProfile)
	public.Get("/:username/event-types", handlers.GetPublicEventTypes)
	public.Get("/:username/slots", handlers.GetPublicSlots)
	public.Post("/:username/bookings", handlers.CreatePublicBooking)
}
