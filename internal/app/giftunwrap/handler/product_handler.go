package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxUploadMemory ограничивает размер multipart формы админ-портала
const maxUploadMemory = 32 << 20

// ProductHandler обрабатывает HTTP запросы каталога и встроенных отзывов
type ProductHandler struct {
	catalogService *service.CatalogService
	reviewService  *service.ReviewService
	validator      *validator.Validate
}

// NewProductHandler создает новый обработчик каталога
func NewProductHandler(catalogService *service.CatalogService, reviewService *service.ReviewService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		reviewService:  reviewService,
		validator:      validator.New(),
	}
}

// GetAllProducts обрабатывает GET /api/products
// Отдает весь каталог как массив документов категорий
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	categories, err := h.catalogService.GetAllProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch products", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateProductCategory обрабатывает POST /api/products/multipleproductcategory
// Принимает multipart форму: поле category, поле products (JSON) и файлы изображений
func (h *ProductHandler) CreateProductCategory(c *gin.Context) {
	var req entity.CreateProductCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid multipart form"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid multipart form"})
		return
	}

	images := make([]service.UploadedImage, 0)
	for _, fileHeader := range form.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Failed to read uploaded image"})
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadMemory))
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Failed to read uploaded image"})
			return
		}
		images = append(images, service.UploadedImage{Filename: fileHeader.Filename, Data: data})
	}

	categoryDoc, err := h.catalogService.CreateProductCategory(c.Request.Context(), req.Category, req.Products, images)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingProductCategory),
			errors.Is(err, service.ErrInvalidProductPayload):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to create product", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Product created successfully",
		"category": categoryDoc,
	})
}

// GetProductByID обрабатывает GET /api/products/:id
// :id - числовой идентификатор товара, сквозной для всего каталога
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid product ID format, expected a number"})
		return
	}

	product, categoryName, err := h.catalogService.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch product", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  product,
		"category": categoryName,
	})
}

// UpdateProductByID обрабатывает PUT /api/products/:id
func (h *ProductHandler) UpdateProductByID(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid product ID format, expected a number"})
		return
	}

	var updated entity.Product
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	product, err := h.catalogService.UpdateProductByID(c.Request.Context(), productID, &updated)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to update product", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProductByObjectID обрабатывает DELETE /api/products/:id
// В отличие от PUT, :id здесь - MongoDB ObjectID товара, а не числовой ID
func (h *ProductHandler) DeleteProductByObjectID(c *gin.Context) {
	err := h.catalogService.DeleteProductByObjectID(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProductID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid product ID format"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Product not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to delete product", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product deleted successfully"})
}

// DeleteAllProducts обрабатывает DELETE /api/products/delete
func (h *ProductHandler) DeleteAllProducts(c *gin.Context) {
	if err := h.catalogService.DeleteAllProducts(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to delete products", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "All products deleted successfully"})
}

// AddProductReview обрабатывает POST /api/products/:id/reviews
// Добавляет встроенный отзыв и возвращает товар с пересчитанными агрегатами
func (h *ProductHandler) AddProductReview(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid product ID format, expected a number"})
		return
	}

	var req entity.AddProductReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	product, err := h.reviewService.AddProductReview(c.Request.Context(), productID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating),
			errors.Is(err, service.ErrEmptyComment),
			errors.Is(err, service.ErrInvalidUserID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "User not found"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Product not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to add review", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review added successfully",
		"product": product,
	})
}

// DeleteProductReview обрабатывает DELETE /api/products/reviews/:reviewId
// Удаляет встроенный отзыв и возвращает товар с пересчитанными агрегатами
func (h *ProductHandler) DeleteProductReview(c *gin.Context) {
	product, err := h.reviewService.DeleteProductReview(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReviewID):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid review ID format"})
		case errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Review not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to delete review", Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
		"product": product,
	})
}

// GetAllEmbeddedReviews обрабатывает GET /api/products/reviews
// Плоский список всех встроенных отзывов каталога для админ-портала
func (h *ProductHandler) GetAllEmbeddedReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetAllEmbeddedReviews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch reviews", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, reviews)
}
