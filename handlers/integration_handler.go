package handlers

import (
	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Calendar/video provider integrations store tokens only; the OAuth dance
// happens elsewhere.

func GetMyIntegrations(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var integrations []models.Integration
	database.DB.Where("user_id = ?", userID).Find(&integrations)

	return c.JSON(integrations)
}

type ConnectIntegrationRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
}

func ConnectIntegration(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	provider := c.Params("provider")

	var req ConnectIntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var integration models.Integration
	err := database.DB.Where("user_id = ? AND provider = ?", userID, provider).First(&integration).Error
	if err != nil {
		integration = models.Integration{UserID: userID, Provider: provider}
	}

	integration.AccessToken = &req.AccessToken
	if req.RefreshToken != "" {
		integration.RefreshToken = &req.RefreshToken
	}
	integration.Active = true

	if err := database.DB.Save(&integration).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save integration"})
	}

	return c.JSON(integration)
}

func DisconnectIntegration(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	provider := c.Params("provider")

	var integration models.Integration
	if err := database.DB.Where("user_id = ? AND provider = ?", userID, provider).First(&integration).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Integration not found"})
	}

	integration.Active = false
	integration.AccessToken = nil
	integration.RefreshToken = nil
	if err := database.DB.Save(&integration).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to disconnect integration"})
	}

	return c.JSON(fiber.Map{"message": "Integration disconnected"})
}
