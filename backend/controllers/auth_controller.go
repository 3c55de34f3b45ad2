package controllers

import (
	"errors"
	"log"

	"forum/backend/services"
	"forum/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Auth   *services.AuthService
	Logger *log.Logger
}

func NewAuthController(auth *services.AuthService, logger *log.Logger) *AuthController {
	return &AuthController{Auth: auth, Logger: logger}
}

// Authenticate godoc
// @Summary Authenticate
// @Description Exchanges email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body LoginForm true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth [post]
func (ac *AuthController) Authenticate(c *fiber.Ctx) error {
	var form LoginForm
	fields, err := utils.ParseAndValidate(c, &form)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return utils.ValidationError(c, fields)
	}

	token, err := ac.Auth.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			return utils.BadRequest(c, "Invalid credentials")
		}
		ac.Logger.Printf("Error authenticating %s: %v", form.Email, err)
		return utils.InternalServerError(c, "Could not authenticate")
	}

	return c.JSON(TokenResponse{Token: token, Type: utils.TokenType})
}
