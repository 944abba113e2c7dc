package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateOrderRequest - запрос на создание заказа
// Поля позиций намеренно указательные: пропущенное значение отличается от нулевого,
// порядок проверок фиксирован в OrderService
type CreateOrderRequest struct {
	ShippingInfo  *ShippingAddress   `json:"shippingInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	CardDetails   *CardDetails       `json:"cardDetails,omitempty"`
	OrderItems    []OrderItemRequest `json:"orderItems"`
	UserID        string             `json:"userId,omitempty"`
}

// OrderItemRequest - позиция корзины, присланная клиентом
// Price клиента никогда не используется для расчётов, только сверяется
type OrderItemRequest struct {
	Category string   `json:"category"`
	ID       *int     `json:"id"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price"`
}

// CardDetails - реквизиты карты; сохраняются как метаданные, списание не выполняется
type CardDetails struct {
	CardName        string `json:"cardName"`
	CardNumber      string `json:"cardNumber"`
	Expiry          string `json:"expiry"`
	CVV             string `json:"cvv"`
	SaveCardDetails bool   `json:"saveCardDetails"`
}

// UpdateOrderStatusRequest - запрос на смену статуса заказа
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AddProductReviewRequest - запрос на добавление встроенного отзыва к товару
type AddProductReviewRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// CreateReviewRequest - запрос на создание отдельного отзыва
type CreateReviewRequest struct {
	ProductID       *int   `json:"productId" validate:"required"`
	ProductCategory string `json:"productCategory" validate:"required"`
	UserID          string `json:"userId" validate:"required"`
	Comment         string `json:"comment" validate:"required"`
}

// RegisterRequest - запрос на регистрацию пользователя
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Name            string `json:"name" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest - запрос на восстановление пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest - запрос на сброс пароля
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ChangePasswordRequest - запрос на смену пароля
type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// CreateProductCategoryRequest - данные товара из multipart формы админ-портала
type CreateProductCategoryRequest struct {
	Category string `form:"category" validate:"required"`
	Products string `form:"products" validate:"required"` // JSON-массив с одним товаром
}

// CreateMessageRequest - запрос на создание сообщения обратной связи
type CreateMessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Content string `json:"content" validate:"required"`
}

// LoginResponse - ответ на успешный вход
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// AllReviewsEntry - строка сводного списка всех встроенных отзывов для админ-портала
type AllReviewsEntry struct {
	ID              primitive.ObjectID `json:"_id"`
	ProductID       int                `json:"productId"`
	ProductName     string             `json:"productName"`
	ProductCategory string             `json:"productCategory"`
	UserID          primitive.ObjectID `json:"userId"`
	Rating          int                `json:"rating"`
	Comment         string             `json:"comment"`
	CreatedAt       time.Time          `json:"createdAt"`
	User            *ReviewAuthor      `json:"user"`
}

// ReviewAuthor - публичные данные автора отзыва
type ReviewAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
