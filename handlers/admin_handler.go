package handlers

import (
	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/gofiber/fiber/v2"
)

func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at asc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

func ToggleUserActive(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(user)
}

func ListSubscriptions(c *fiber.Ctx) error {
	var subscriptions []models.Subscription
	if err := database.DB.Find(&subscriptions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(subscriptions)
}

func GetAdminStats(c *fiber.Ctx) error {
	var totalUsers, totalBookings, totalSubscriptions int64
	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Subscription{}).Count(&totalSubscriptions)

	return c.JSON(fiber.Map{
		"total_users":         totalUsers,
		"total_bookings":      totalBookings,
		"total_subscriptions": totalSubscriptions,
	})
}
