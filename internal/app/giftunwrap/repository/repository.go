package repository

import (
	"context"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// serviceName - метка сервиса для метрик MongoDB
const serviceName = "giftunwrap-backend"

// CatalogRepository определяет методы для работы с документами категорий в MongoDB
// Каждый документ категории содержит встроенный список товаров с их отзывами
type CatalogRepository interface {
	GetAll(ctx context.Context) ([]entity.Category, error)
	GetByCategory(ctx context.Context, category string) (*entity.Category, error)
	GetByProductID(ctx context.Context, productID int) (*entity.Category, error)
	GetByProductObjectID(ctx context.Context, productOID primitive.ObjectID) (*entity.Category, error)
	GetByEmbeddedReviewID(ctx context.Context, reviewID primitive.ObjectID) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	UpdateProducts(ctx context.Context, categoryID primitive.ObjectID, products []entity.Product) error
	DeleteAll(ctx context.Context) error
}

// OrderRepository определяет методы для работы с заказами в MongoDB
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetAll(ctx context.Context) ([]entity.Order, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status entity.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, orderID primitive.ObjectID) error
	CountByStatus(ctx context.Context) (map[entity.OrderStatus]int64, error)
}

// ReviewRepository определяет методы для работы с отдельными отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	Exists(ctx context.Context, productID int, productCategory string, userID primitive.ObjectID) (bool, error)
	GetByProduct(ctx context.Context, productID int, productCategory string) ([]entity.Review, error)
}

// UserRepository определяет методы для работы с пользователями в MongoDB
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
	GetAll(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MessageRepository определяет методы для работы с сообщениями обратной связи
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetAll(ctx context.Context) ([]entity.Message, error)
}
