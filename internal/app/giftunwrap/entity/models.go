package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category представляет документ категории товаров в MongoDB
// Товары живут только внутри своей категории и не имеют самостоятельной записи
type Category struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Category string             `json:"category" bson:"category"`
	Products []Product          `json:"products" bson:"products"`
}

// Product представляет товар, встроенный в документ категории
// Поле ID - числовой идентификатор, уникальный во всём каталоге
type Product struct {
	ObjectID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID               int                `json:"id" bson:"id"`
	Name             string             `json:"name" bson:"name"`
	Price            float64            `json:"price" bson:"price"`
	OriginalPrice    float64            `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Discount         float64            `json:"discount,omitempty" bson:"discount,omitempty"`
	KeyGift          string             `json:"keyGift" bson:"keyGift"`
	Subcategory      string             `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Images           []string           `json:"images" bson:"images"`
	ShortDescription string             `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	LongDescription  string             `json:"longDescription,omitempty" bson:"longDescription,omitempty"`
	Reviews          []EmbeddedReview   `json:"reviews" bson:"reviews"`
	Rating           float64            `json:"rating" bson:"rating"`       // Производное: среднее оценок отзывов
	NumReviews       int                `json:"numReviews" bson:"numReviews"` // Производное: количество отзывов
}

// EmbeddedReview представляет отзыв, встроенный в товар
// Имя автора денормализуется при записи
type EmbeddedReview struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Username  string             `json:"username" bson:"username"`
	Rating    int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Review представляет отдельно хранимый отзыв
// Уникален по тройке (productId, productCategory, user)
type Review struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProductID       int                `json:"productId" bson:"productId"`
	ProductCategory string             `json:"productCategory" bson:"productCategory"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	Comment         string             `json:"comment" bson:"comment"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// ReviewWithUser - отдельный отзыв вместе с именем автора
type ReviewWithUser struct {
	Review   `bson:",inline"`
	Username string `json:"username" bson:"-"`
}

// OrderStatus представляет статусы заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Ожидает обработки (cod)
	OrderStatusProcessing OrderStatus = "processing" // В обработке (creditCard)
	OrderStatusShipped    OrderStatus = "shipped"    // Отправлен
	OrderStatusDelivered  OrderStatus = "delivered"  // Доставлен
	OrderStatusCancelled  OrderStatus = "cancelled"  // Отменен
	OrderStatusReturned   OrderStatus = "returned"   // Возвращен
)

// IsValid проверяет принадлежность статуса фиксированному перечислению
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// ShippingAddress - адрес доставки заказа, все поля кроме AdditionalInfo обязательны
type ShippingAddress struct {
	FirstName      string `json:"firstName" bson:"firstName"`
	LastName       string `json:"lastName" bson:"lastName"`
	Email          string `json:"email" bson:"email"`
	Phone          string `json:"phone" bson:"phone"`
	Country        string `json:"country" bson:"country"`
	City           string `json:"city" bson:"city"`
	Street         string `json:"street" bson:"street"`
	State          string `json:"state" bson:"state"`
	PostalCode     string `json:"postalCode" bson:"postalCode"`
	AdditionalInfo string `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
}

// PaymentDetails - метаданные оплаты; карта никогда не списывается
type PaymentDetails struct {
	Method          string `json:"method" bson:"method"` // creditCard или cod
	CardName        string `json:"cardName,omitempty" bson:"cardName,omitempty"`
	SaveCardDetails bool   `json:"saveCardDetails,omitempty" bson:"saveCardDetails,omitempty"`
}

// OrderItem - замороженный снимок позиции заказа
// Цена фиксируется на момент заказа и не зависит от последующих изменений каталога
type OrderItem struct {
	ProductCategory    string  `json:"productCategory" bson:"productCategory"`
	ProductID          int     `json:"productId" bson:"productId"`
	Name               string  `json:"name" bson:"name"`
	Quantity           int     `json:"quantity" bson:"quantity"`
	PriceAtTimeOfOrder float64 `json:"priceAtTimeOfOrder" bson:"priceAtTimeOfOrder"`
	ImageURL           string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// Order представляет заказ в системе
// После создания изменяется только поле Status
type Order struct {
	ID              primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	User            *primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	ShippingAddress ShippingAddress     `json:"shippingAddress" bson:"shippingAddress"`
	PaymentDetails  PaymentDetails      `json:"paymentDetails" bson:"paymentDetails"`
	OrderItems      []OrderItem         `json:"orderItems" bson:"orderItems"`
	Subtotal        float64             `json:"subtotal" bson:"subtotal"`
	ShippingCost    float64             `json:"shippingCost" bson:"shippingCost"`
	DiscountAmount  float64             `json:"discountAmount" bson:"discountAmount"`
	TotalAmount     float64             `json:"totalAmount" bson:"totalAmount"`
	Status          OrderStatus         `json:"status" bson:"status"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
}

// User представляет пользователя в системе
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"` // не возвращаем в JSON
	Name         string             `json:"name" bson:"name"`
	PhoneNumber  string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
}

// Message представляет сообщение обратной связи
type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// OrderEvent представляет событие изменения заказа для Kafka
type OrderEvent struct {
	EventType   string      `json:"event_type"` // ORDER_CREATED, ORDER_STATUS_UPDATED
	OrderID     string      `json:"order_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	ItemsCount  int         `json:"items_count"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ReviewEvent представляет событие создания отзыва для Kafka
type ReviewEvent struct {
	EventType       string    `json:"event_type"` // REVIEW_CREATED
	ReviewID        string    `json:"review_id"`
	ProductID       int       `json:"product_id"`
	ProductCategory string    `json:"product_category,omitempty"`
	UserID          string    `json:"user_id"`
	Rating          int       `json:"rating,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// ProductEvent представляет событие изменения каталога для Kafka
type ProductEvent struct {
	EventType string    `json:"event_type"` // PRODUCT_CREATED, PRODUCT_DELETED
	ProductID int       `json:"product_id"`
	Category  string    `json:"category"`
	Name      string    `json:"name,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
