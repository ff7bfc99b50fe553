package handlers

import (
	"errors"
	"strings"
	"time"

	config "github.com/schedulrhq/schedulr/configs"
	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,alphanum"`
	Password string `json:"password" validate:"required,min=6"`
	Timezone string `json:"timezone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Timezone string `json:"timezone"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	var newUser models.User
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			return errors.New("email already registered")
		}
		tx.Model(&models.User{}).Where("username = ?", strings.ToLower(req.Username)).Count(&count)
		if count > 0 {
			return errors.New("username already taken")
		}

		newUser = models.User{
			Name:     req.Name,
			Email:    req.Email,
			Username: strings.ToLower(req.Username),
			Password: string(hashedPassword),
			Timezone: timezone,
			Role:     "USER",
			IsActive: true,
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}

		// Every new host starts on the free plan.
		subscription := models.Subscription{
			UserID:    newUser.ID,
			Plan:      "FREE",
			Status:    "ACTIVE",
			StartDate: time.Now(),
		}
		return tx.Create(&subscription).Error
	})

	if err != nil {
		if err.Error() == "email already registered" || err.Error() == "username already taken" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	token, err := issueToken(newUser)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse(newUser, token))
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	result := database.DB.Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is deactivated"})
	}

	token, err := issueToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(authResponse(user, token))
}

func issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func authResponse(user models.User, token string) AuthResponse {
	return AuthResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Name:     user.Name,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Timezone: user.Timezone,
	}
}
