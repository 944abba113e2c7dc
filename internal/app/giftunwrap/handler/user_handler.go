package handler

import (
	"errors"
	"net/http"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"

	"github.com/gin-gonic/gin"
)

// UserHandler обрабатывает административные запросы к пользователям
type UserHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetAllUsers обрабатывает GET /api/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.authService.GetAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch users", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser обрабатывает DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.authService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid user ID format"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to delete user", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "User deleted successfully"})
}
