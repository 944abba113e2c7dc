package handler

import (
	"errors"
	"net/http"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OrderHandler обрабатывает HTTP запросы для заказов с использованием Gin
type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

// NewOrderHandler создает новый обработчик заказов
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// CreateOrder обрабатывает POST /api/orders
// Цены пересчитываются по каталогу на сервере, присланные клиентом суммы игнорируются
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req entity.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		status, resp := orderErrorStatus(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully!",
		"order":   order,
	})
}

// GetOrders обрабатывает GET /api/orders
// Необязательный query-параметр userId сужает выборку до заказов пользователя
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := c.Query("userId")

	orders, err := h.orderService.GetOrders(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUserID) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid user ID format"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch orders", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus обрабатывает PUT /api/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req entity.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid order ID format"})
		case errors.Is(err, service.ErrInvalidOrderStatus):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid order status"})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to update order status", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// DeleteOrder обрабатывает DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid order ID format"})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to delete order", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Order deleted successfully"})
}

// orderErrorStatus сопоставляет ошибки создания заказа с HTTP статусами
// Нарушения входных данных отдаются как 400, неизвестный товар или категория как 404
func orderErrorStatus(err error) (int, entity.ErrorResponse) {
	switch {
	case errors.Is(err, service.ErrMissingOrderData),
		errors.Is(err, service.ErrMissingShippingFields),
		errors.Is(err, service.ErrInvalidOrderItem),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrMissingCardDetails),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidUserID):
		return http.StatusBadRequest, entity.ErrorResponse{Message: err.Error()}
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, entity.ErrorResponse{Message: err.Error()}
	default:
		return http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to create order", Error: err.Error()}
	}
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
