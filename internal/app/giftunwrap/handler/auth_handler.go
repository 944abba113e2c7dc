package handler

import (
	"errors"
	"net/http"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AuthHandler обрабатывает HTTP запросы аутентификации
type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

// Register обрабатывает POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Passwords do not match"})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Message: "User with this email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to register user", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login обрабатывает POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to log in", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ForgotPassword обрабатывает POST /api/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req entity.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	token, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "User with this email does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to process request", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Password reset token generated",
		"resetToken": token,
	})
}

// ResetPassword обрабатывает POST /api/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req entity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "User with this email does not exist"})
		case errors.Is(err, service.ErrSamePassword):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "New password cannot be the same as the old password"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to reset password", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Password has been reset successfully"})
}

// ChangePassword обрабатывает POST /api/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req entity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "User not found"})
		case errors.Is(err, service.ErrIncorrectPassword):
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Current password is incorrect"})
		case errors.Is(err, service.ErrSamePassword):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "New password cannot be the same as the current password"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to change password", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Password changed successfully"})
}
