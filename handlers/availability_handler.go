package handlers

import (
	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/schedulrhq/schedulr/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityRuleRequest struct {
	DayOfWeek   string `json:"day_of_week" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	IsAvailable *bool  `json:"is_available"`
}

func GetMyAvailability(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var rules []models.AvailabilityRule
	database.DB.Where("user_id = ?", userID).Find(&rules)

	return c.JSON(rules)
}

// SaveAvailability replaces the host's entire weekly schedule: every prior
// rule is deleted and the submitted set inserted in one transaction.
func SaveAvailability(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var reqs []AvailabilityRuleRequest
	if err := c.BodyParser(&reqs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	rules := make([]models.AvailabilityRule, 0, len(reqs))
	seen := make(map[services.Weekday]bool)
	for _, req := range reqs {
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		day, err := services.ParseWeekday(req.DayOfWeek)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if seen[day] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Duplicate rule for " + string(day)})
		}
		seen[day] = true
		startTime, err := services.NormalizeClock(req.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		endTime, err := services.NormalizeClock(req.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		isAvailable := true
		if req.IsAvailable != nil {
			isAvailable = *req.IsAvailable
		}
		rules = append(rules, models.AvailabilityRule{
			UserID:      userID,
			DayOfWeek:   string(day),
			StartTime:   startTime,
			EndTime:     endTime,
			IsAvailable: isAvailable,
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save availability"})
	}

	return c.JSON(rules)
}
