package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/schedulrhq/schedulr/notifications"
	"github.com/schedulrhq/schedulr/services"
	"github.com/schedulrhq/schedulr/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Naive host-local timestamps on the wire; no zone offsets.
const bookingTimeLayout = "2006-01-02T15:04:05"

func GetPublicProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"name":     user.Name,
		"username": user.Username,
		"timezone": user.Timezone,
	})
}

func GetPublicEventTypes(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var eventTypes []models.EventType
	database.DB.Where("user_id = ? AND active = ?", user.ID, true).Find(&eventTypes)

	return c.JSON(eventTypes)
}

// GetPublicSlots returns the open slots for one event type over a 7-day
// window starting at the requested date. Slots already taken are filtered
// out here; the listing is a snapshot and may go stale before booking.
func GetPublicSlots(c *fiber.Ctx) error {
	username := c.Params("username")

	eventTypeID, err := uuid.Parse(c.Query("event_type_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event_type_id"})
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	var host models.User
	if err := database.DB.Where("username = ?", username).First(&host).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var eventType models.EventType
	if err := database.DB.Where("id = ? AND user_id = ?", eventTypeID, host.ID).First(&eventType).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event type not found"})
	}

	startDate := date
	endDate := date.AddDate(0, 0, 6)

	var rules []models.AvailabilityRule
	database.DB.Where("user_id = ?", host.ID).Find(&rules)

	bookings, err := services.BookedBetween(database.DB, host.ID, startDate, endDate.AddDate(0, 0, 1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	slots := services.GenerateSlots(rules, bookings, eventType, startDate, endDate, time.Now())
	return c.JSON(services.AvailableOnly(slots))
}

type CreateBookingRequest struct {
	EventTypeID string  `json:"event_type_id" validate:"required,uuid"`
	GuestName   string  `json:"guest_name" validate:"required"`
	GuestEmail  string  `json:"guest_email" validate:"required,email"`
	StartTime   string  `json:"start_time" validate:"required"`
	Notes       *string `json:"notes"`
}

func CreatePublicBooking(c *fiber.Ctx) error {
	username := c.Params("username")

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, err := time.Parse(bookingTimeLayout, req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_time, expected YYYY-MM-DDTHH:MM:SS"})
	}
	eventTypeID, _ := uuid.Parse(req.EventTypeID)

	booking, err := services.CreateBooking(database.DB, username, services.CreateBookingInput{
		EventTypeID: eventTypeID,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		StartTime:   startTime,
		Notes:       req.Notes,
	}, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrHostNotFound), errors.Is(err, services.ErrEventTypeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrEventTypeMismatch),
			errors.Is(err, services.ErrEventTypeInactive),
			errors.Is(err, services.ErrPastStartTime):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("🔥 Failed to create booking: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
		}
	}

	// Fire-and-forget: the booking is committed whatever happens to the
	// notifications.
	go notifications.SendBookingConfirmationToGuest(booking)
	go notifications.SendBookingConfirmationToHost(booking)
	websocket.PublishBooking("booking_created", booking)

	return c.Status(fiber.StatusCreated).JSON(booking)
}
