package controllers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/RobinHaber/Roamly/internal/pkg/constants"
	"github.com/RobinHaber/Roamly/internal/pkg/env"
	"github.com/RobinHaber/Roamly/internal/pkg/session"
)

// AdminAuthController issues and destroys admin sessions. Prefer
// ADMIN_PASSWORD_HASH (bcrypt) in production; ADMIN_PASSWORD is a
// plain-text fallback for local development.
type AdminAuthController struct{}

// NewAdminAuthController creates a new admin auth controller
func NewAdminAuthController() *AdminAuthController {
	return &AdminAuthController{}
}

type loginRequest struct {
	Password string `json:"password"`
}

// HandleLogin checks the admin password and marks the session.
func (aac *AdminAuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "password is required")
	}

	if !checkAdminPassword(req.Password) {
		return errorJSON(c, fiber.StatusUnauthorized, "unauthorized", "invalid credentials")
	}

	if err := session.SetSessionValue(c, constants.SessionKeyIsAdmin, "true"); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "session_error", err.Error())
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleLogout destroys the admin session.
func (aac *AdminAuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.DestroySession(c); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "session_error", err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

func checkAdminPassword(password string) bool {
	if hash := env.GetEnv("ADMIN_PASSWORD_HASH", ""); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	if plain := env.GetEnv("ADMIN_PASSWORD", ""); plain != "" {
		return subtle.ConstantTimeCompare([]byte(plain), []byte(password)) == 1
	}
	return false
}
