package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет JWT токен в запросах для Gin
type AuthMiddleware struct {
	jwtManager *util.JWTManager
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(jwtManager *util.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate проверяет JWT токен и добавляет данные пользователя в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.ID)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}
