package routes

import (
	"github.com/schedulrhq/schedulr/handlers"
	"github.com/schedulrhq/schedulr/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Get("", handlers.GetMyBookings)
	bookings.Get("/upcoming", handlers.GetUpcomingBookings)
	bookings.Get("/past", handlers.GetPastBookings)
	bookings.Patch("/:bookingId/cancel", handlers.CancelBooking)
}
