package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"imageuploader-api/internal/app"
	"imageuploader-api/internal/transport/http/middleware"
	"imageuploader-api/internal/transport/http/response"
	"imageuploader-api/internal/transport/http/validation"
)

type AuthHandler struct {
	authService *app.AuthService
}

// CredentialsRequest is the body of both login and register. Passwords are
// capped at bcrypt's 72 byte input limit.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Token(c, result.Token)
}

// Register answers 200 with the new user's token, the same shape as Login.
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), app.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Token(c, result.Token)
}

// Logout is stateless; tokens stay valid until the secret rotates.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Message(c, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	user, err := h.authService.GetMe(c.Request.Context(), claims)
	if err != nil {
		if errors.Is(err, app.ErrInvalidToken) || errors.Is(err, app.ErrUserNotFound) {
			response.Unauthorized(c)
			return
		}
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
