package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReviewHandler обрабатывает HTTP запросы отдельно хранимых отзывов
type ReviewHandler struct {
	reviewService *service.ReviewService
	validator     *validator.Validate
}

// NewReviewHandler создает новый обработчик отзывов
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// CreateReview обрабатывает POST /api/reviews
// Повторный отзыв того же автора на тот же товар в той же категории дает 409
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateReview):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Message: "You have already reviewed this product in this category"})
		case errors.Is(err, service.ErrMissingProductCategory),
			errors.Is(err, service.ErrEmptyComment),
			errors.Is(err, service.ErrInvalidUserID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to create review", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// GetProductReviews обрабатывает GET /api/reviews/:productId/:productCategory
// Отдает отзывы товара от новых к старым
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid product ID format, expected a number"})
		return
	}

	reviews, err := h.reviewService.GetProductReviews(c.Request.Context(), productID, c.Param("productCategory"))
	if err != nil {
		if errors.Is(err, service.ErrMissingProductCategory) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Product category is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch reviews", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, reviews)
}
