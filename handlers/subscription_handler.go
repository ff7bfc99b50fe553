package handlers

import (
	"strings"
	"time"

	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func GetMySubscription(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var subscription models.Subscription
	if err := database.DB.Where("user_id = ?", userID).First(&subscription).Error; err != nil {
		// Accounts predating the subscription table default to FREE.
		return c.JSON(fiber.Map{"plan": "FREE", "status": "ACTIVE"})
	}

	return c.JSON(subscription)
}

type UpgradePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=FREE PRO TEAM free pro team"`
}

func UpgradePlan(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req UpgradePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan := strings.ToUpper(req.Plan)

	var subscription models.Subscription
	err := database.DB.Where("user_id = ?", userID).First(&subscription).Error
	if err != nil {
		subscription = models.Subscription{UserID: userID}
	}

	now := time.Now()
	subscription.Plan = plan
	subscription.Status = "ACTIVE"
	subscription.StartDate = now
	if plan != "FREE" {
		endDate := now.AddDate(0, 1, 0)
		subscription.EndDate = &endDate
	} else {
		subscription.EndDate = nil
	}

	if err := database.DB.Save(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update subscription"})
	}

	return c.JSON(subscription)
}
