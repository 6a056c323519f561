package controllers

import (
	"errors"
	"strconv"
	"time"

	"tms/backend/cache"
	"tms/backend/config"
	"tms/backend/models"
	"tms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Tokens *cache.TokenCache // nil disables refresh tokens
}

func NewAuthController(db *gorm.DB, cfg *config.Config, tokens *cache.TokenCache) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Tokens: tokens}
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Organisation string `json:"organisation"`
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	if input.Role == "" {
		input.Role = string(models.RoleLearner)
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		Organisation: input.Organisation,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.DB.Create(&models.LoginHistory{UserID: user.ID, LoginTime: time.Now()})

	resp := fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	}

	if ac.Tokens != nil {
		refresh := uuid.NewString()
		if err := ac.Tokens.SaveRefresh(c.Context(), strconv.Itoa(int(user.ID)), refresh); err == nil {
			resp["refresh_token"] = refresh
		}
	}

	return c.JSON(resp)
}

// Refresh exchanges a refresh token for a new access token. Requires Redis.
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	if ac.Tokens == nil {
		return utils.BadRequest(c, "Refresh tokens are not enabled")
	}

	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	userID, err := ac.Tokens.CheckRefresh(c.Context(), input.RefreshToken)
	if err != nil {
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	id, err := strconv.Atoi(userID)
	if err != nil {
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	var user models.User
	if err := ac.DB.First(&user, id).Error; err != nil {
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{"token": token})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if ac.Tokens != nil {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil && input.RefreshToken != "" {
			_ = ac.Tokens.DeleteRefresh(c.Context(), input.RefreshToken)
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
