package service

import "errors"

var (
	// Заказы
	ErrMissingOrderData      = errors.New("missing required order data (shipping, payment, or items)")
	ErrMissingShippingFields = errors.New("missing required shipping information fields")
	ErrInvalidOrderItem      = errors.New("invalid item data provided")
	ErrInvalidQuantity       = errors.New("invalid quantity for item")
	ErrMissingCardDetails    = errors.New("missing required credit card details")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method specified")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrInvalidOrderID        = errors.New("invalid order id format")
	ErrOrderNotFound         = errors.New("order not found")

	// Каталог и отзывы
	ErrCategoryNotFound       = errors.New("product category not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrReviewNotFound         = errors.New("review not found")
	ErrInvalidProductID       = errors.New("invalid product id format, expected a number")
	ErrInvalidReviewID        = errors.New("invalid review id format")
	ErrInvalidRating          = errors.New("rating must be a number between 1 and 5")
	ErrEmptyComment           = errors.New("comment cannot be empty")
	ErrMissingProductCategory = errors.New("product category is required")
	ErrInvalidProductPayload  = errors.New("invalid products payload")
	ErrDuplicateReview        = errors.New("review already submitted for this product in this category")

	// Пользователи
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidUserID      = errors.New("invalid user id format")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrIncorrectPassword  = errors.New("incorrect current password")
	ErrSamePassword       = errors.New("new password cannot be the same as the current password")
)
