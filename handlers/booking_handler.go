package handlers

import (
	"errors"
	"time"

	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/schedulrhq/schedulr/notifications"
	"github.com/schedulrhq/schedulr/services"
	"github.com/schedulrhq/schedulr/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	hostID := claims["user_id"].(string)

	var bookings []models.Booking
	database.DB.
		Preload("EventType").
		Where("host_id = ?", hostID).
		Order("start_time desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func GetUpcomingBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	hostID := claims["user_id"].(string)

	now := time.Now()
	var bookings []models.Booking
	database.DB.
		Preload("EventType").
		Where("host_id = ? AND status = ? AND start_time >= ? AND start_time <= ?",
			hostID, models.BookingStatusBooked, now, now.AddDate(0, 0, 30)).
		Order("start_time asc").
		Find(&bookings)

	return c.JSON(bookings)
}

func GetPastBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	hostID := claims["user_id"].(string)

	var bookings []models.Booking
	database.DB.
		Preload("EventType").
		Where("host_id = ? AND start_time < ? AND status != ?",
			hostID, time.Now(), models.BookingStatusCancelled).
		Order("start_time desc").
		Find(&bookings)

	return c.JSON(bookings)
}

type CancelBookingRequest struct {
	Reason *string `json:"reason"`
}

func CancelBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	hostID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req CancelBookingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}

	booking, err := services.CancelBooking(database.DB, hostID, bookingID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrNotYourBooking):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyCancelled):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel booking"})
		}
	}

	go notifications.SendCancellationEmails(booking)
	websocket.PublishBooking("booking_cancelled", booking)

	return c.JSON(booking)
}
