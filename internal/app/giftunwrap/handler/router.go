package handler

import (
	"net/http"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers собирает все обработчики для регистрации маршрутов
type Handlers struct {
	Order   *OrderHandler
	Product *ProductHandler
	Review  *ReviewHandler
	Auth    *AuthHandler
	User    *UserHandler
	Message *MessageHandler
}

// SetupRoutes настраивает все маршруты бэкенда с использованием Gin
// Клиентские эндпоинты публичные, смена пароля и админка пользователей
// защищены JWT middleware
func SetupRoutes(h *Handlers, authMiddleware *AuthMiddleware, uploadDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("giftunwrap-backend"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint - публичный, без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "giftunwrap-backend",
		})
	})

	// Prometheus метрики
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Загруженные изображения товаров
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")
	{
		// Заказы
		api.POST("/orders", h.Order.CreateOrder)
		api.GET("/orders", h.Order.GetOrders)
		api.PUT("/orders/:id/status", h.Order.UpdateOrderStatus)
		api.DELETE("/orders/:id", h.Order.DeleteOrder)

		// Каталог и встроенные отзывы
		api.GET("/products", h.Product.GetAllProducts)
		api.POST("/products/multipleproductcategory", h.Product.CreateProductCategory)
		api.GET("/products/:id", h.Product.GetProductByID)
		api.PUT("/products/:id", h.Product.UpdateProductByID)
		api.DELETE("/products/delete", h.Product.DeleteAllProducts)
		api.DELETE("/products/:id", h.Product.DeleteProductByObjectID)
		api.POST("/products/:id/reviews", h.Product.AddProductReview)
		api.DELETE("/products/reviews/:reviewId", h.Product.DeleteProductReview)
		api.GET("/products/reviews", h.Product.GetAllEmbeddedReviews)

		// Отдельные отзывы
		api.POST("/reviews", h.Review.CreateReview)
		api.GET("/reviews/:productId/:productCategory", h.Review.GetProductReviews)

		// Аутентификация
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
			auth.POST("/reset-password", h.Auth.ResetPassword)
		}

		// Обратная связь
		api.POST("/messages", h.Message.CreateMessage)
		api.GET("/messages", h.Message.GetMessages)

		// Требуют валидный JWT
		protected := api.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("/auth/change-password", h.Auth.ChangePassword)
			protected.GET("/users/allusers", h.User.GetAllUsers)
			protected.DELETE("/users/delete/:id", h.User.DeleteUser)
		}
	}

	return router
}
