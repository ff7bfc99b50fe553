package handlers

import (
	"errors"

	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type EventTypeRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     *string `json:"description"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1"`
	LocationType    string  `json:"location_type" validate:"required,oneof=ZOOM GOOGLE_MEET CUSTOM"`
	LocationDetails *string `json:"location_details"`
	BufferBefore    int     `json:"buffer_before" validate:"min=0"`
	BufferAfter     int     `json:"buffer_after" validate:"min=0"`
	Color           string  `json:"color"`
}

func GetMyEventTypes(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var eventTypes []models.EventType
	database.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&eventTypes)

	return c.JSON(eventTypes)
}

func CreateEventType(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var req EventTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	eventType := models.EventType{
		UserID:          user.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		LocationType:    req.LocationType,
		LocationDetails: req.LocationDetails,
		BufferBefore:    req.BufferBefore,
		BufferAfter:     req.BufferAfter,
		Active:          true,
	}
	if req.Color != "" {
		eventType.Color = req.Color
	}

	if err := database.DB.Create(&eventType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create event type"})
	}

	return c.Status(fiber.StatusCreated).JSON(eventType)
}

func UpdateEventType(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	eventTypeID := c.Params("eventTypeId")

	var req EventTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var eventType models.EventType
	if err := database.DB.Where("id = ? AND user_id = ?", eventTypeID, userID).First(&eventType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event type not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	// Existing bookings keep the end time computed at creation; duration
	// edits only affect future bookings.
	eventType.Name = req.Name
	eventType.Description = req.Description
	eventType.DurationMinutes = req.DurationMinutes
	eventType.LocationType = req.LocationType
	eventType.LocationDetails = req.LocationDetails
	eventType.BufferBefore = req.BufferBefore
	eventType.BufferAfter = req.BufferAfter
	if req.Color != "" {
		eventType.Color = req.Color
	}

	if err := database.DB.Save(&eventType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event type"})
	}

	return c.JSON(eventType)
}

// ToggleEventType flips active state: deactivation hides the event type from
// slot generation and booking without touching its history.
func ToggleEventType(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	eventTypeID := c.Params("eventTypeId")

	var eventType models.EventType
	if err := database.DB.Where("id = ? AND user_id = ?", eventTypeID, userID).First(&eventType).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event type not found"})
	}

	eventType.Active = !eventType.Active
	if err := database.DB.Save(&eventType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event type"})
	}

	return c.JSON(eventType)
}

func DeleteEventType(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	eventTypeID := c.Params("eventTypeId")

	var eventType models.EventType
	if err := database.DB.Where("id = ? AND user_id = ?", eventTypeID, userID).First(&eventType).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event type not found"})
	}

	if err := database.DB.Delete(&eventType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete event type"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
