package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/infrastructure"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// FreeShippingThreshold - сумма корзины, начиная с которой доставка бесплатна
	FreeShippingThreshold = 130.0
	// FlatShippingCost - фиксированная стоимость доставки ниже порога
	FlatShippingCost = 15.0
)

// OrderService обрабатывает бизнес-логику заказов
// Пересчитывает цены по каталогу, никогда не доверяя ценам клиента
type OrderService struct {
	orderRepo     repository.OrderRepository
	catalogRepo   repository.CatalogRepository
	kafkaProducer infrastructure.MessagePublisher
}

// NewOrderService создает новый сервис заказов с внедрением зависимостей
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		catalogRepo:   catalogRepo,
		kafkaProducer: kafkaProducer,
	}
}

// CreateOrder создает новый заказ
// Проверки выполняются строго по порядку и прерываются на первом нарушении:
// 1. Полнота адреса доставки (9 обязательных полей)
// 2. Непустая корзина, полнота каждой позиции
// 3. Существование категории и товара для каждой позиции
// 4. Авторитетная цена всегда берется из каталога; расхождение с ценой
//    клиента пишется в warn-лог, но заказ не блокирует
// 5. Доставка: 0 при пустой сумме, 0 от порога бесплатной доставки, иначе фикс
// 6. Реквизиты карты обязательны для creditCard и сохраняются как метаданные,
//    списание не выполняется
// Каталог читается до записи заказа: при любом отказе заказ не создается вовсе
func (s *OrderService) CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	if req.ShippingInfo == nil || req.PaymentMethod == "" || len(req.OrderItems) == 0 {
		return nil, ErrMissingOrderData
	}

	if !hasAllShippingFields(req.ShippingInfo) {
		return nil, ErrMissingShippingFields
	}

	var subtotal float64
	itemsForDatabase := make([]entity.OrderItem, 0, len(req.OrderItems))

	for _, item := range req.OrderItems {
		if item.Category == "" || item.ID == nil || item.Quantity == 0 || item.Price == nil {
			return nil, ErrInvalidOrderItem
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w %q", ErrInvalidQuantity, item.Name)
		}

		categoryDoc, err := s.catalogRepo.GetByCategory(ctx, item.Category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, item.Category)
			}
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}

		product := findProductByID(categoryDoc.Products, *item.ID)
		if product == nil {
			return nil, fmt.Errorf("%w: id %d in category %q", ErrProductNotFound, *item.ID, item.Category)
		}

		// Авторитетная цена - цена из каталога, цена клиента только сверяется
		itemPrice := product.Price
		if *item.Price != itemPrice {
			logger.Warn().
				Str("item", item.Name).
				Int("product_id", *item.ID).
				Float64("client_price", *item.Price).
				Float64("catalog_price", itemPrice).
				Msg("Price mismatch, using catalog price")
		}

		subtotal += itemPrice * float64(item.Quantity)

		imageURL := ""
		if len(product.Images) > 0 {
			imageURL = product.Images[0]
		}

		itemsForDatabase = append(itemsForDatabase, entity.OrderItem{
			ProductCategory:    item.Category,
			ProductID:          *item.ID,
			Name:               item.Name,
			Quantity:           item.Quantity,
			PriceAtTimeOfOrder: itemPrice,
			ImageURL:           imageURL,
		})
	}

	shippingCost := calculateShippingCost(subtotal)

	// Зарезервировано под будущую промо-логику
	discountAmount := 0.0

	totalAmount := subtotal + shippingCost - discountAmount

	paymentDetails := entity.PaymentDetails{Method: req.PaymentMethod}

	switch req.PaymentMethod {
	case "creditCard":
		if req.CardDetails == nil || req.CardDetails.CardName == "" || req.CardDetails.CardNumber == "" ||
			req.CardDetails.Expiry == "" || req.CardDetails.CVV == "" {
			return nil, ErrMissingCardDetails
		}
		// Точка интеграции платежного шлюза: реквизиты только сохраняются
		logger.Info().Str("card_name", req.CardDetails.CardName).Msg("Processing credit card payment (placeholder)")
		paymentDetails.CardName = req.CardDetails.CardName
		paymentDetails.SaveCardDetails = req.CardDetails.SaveCardDetails
	case "cod":
	default:
		return nil, ErrInvalidPaymentMethod
	}

	order := &entity.Order{
		ShippingAddress: *req.ShippingInfo,
		PaymentDetails:  paymentDetails,
		OrderItems:      itemsForDatabase,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		DiscountAmount:  discountAmount,
		TotalAmount:     totalAmount,
		Status:          initialStatus(req.PaymentMethod),
	}

	if req.UserID != "" {
		userOID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, ErrInvalidUserID
		}
		order.User = &userOID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotalAmount.Add(totalAmount)

	event := entity.OrderEvent{
		EventType:   "ORDER_CREATED",
		OrderID:     order.ID.Hex(),
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		ItemsCount:  len(order.OrderItems),
		Timestamp:   time.Now(),
	}

	if err := s.publishOrderEvent(ctx, event); err != nil {
		// Заказ уже создан, проблемы с Kafka не критичны
		logger.Warn().Err(err).Msg("Failed to publish order created event")
	}

	return order, nil
}

// GetOrders получает все заказы либо заказы одного пользователя
func (s *OrderService) GetOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	if userID == "" {
		orders, err := s.orderRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get orders: %w", err)
		}
		return orders, nil
	}

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	orders, err := s.orderRepo.GetByUser(ctx, userOID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus перезаписывает статус заказа
// Проверяется только принадлежность перечислению: допустим переход
// из любого статуса в любой, таблицы смежности нет
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status string) (*entity.Order, error) {
	orderOID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}

	newStatus := entity.OrderStatus(status)
	if !newStatus.IsValid() {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, orderOID, newStatus)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	event := entity.OrderEvent{
		EventType:   "ORDER_STATUS_UPDATED",
		OrderID:     order.ID.Hex(),
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		ItemsCount:  len(order.OrderItems),
		Timestamp:   time.Now(),
	}

	if err := s.publishOrderEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish order status event")
	}

	return order, nil
}

// DeleteOrder удаляет заказ по ID
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	orderOID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return ErrInvalidOrderID
	}

	if err := s.orderRepo.Delete(ctx, orderOID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

// RefreshStatusMetrics обновляет gauge-метрику orders_by_status из БД
// Вызывается cron-задачей processor.CronScheduler
func (s *OrderService) RefreshStatusMetrics(ctx context.Context) error {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count orders by status: %w", err)
	}

	for _, status := range []entity.OrderStatus{
		entity.OrderStatusPending, entity.OrderStatusProcessing, entity.OrderStatusShipped,
		entity.OrderStatusDelivered, entity.OrderStatusCancelled, entity.OrderStatusReturned,
	} {
		metrics.OrdersByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	return nil
}

// publishOrderEvent отправляет событие о заказе в Kafka
func (s *OrderService) publishOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	// Ключ = OrderID для партиционирования
	if err := s.kafkaProducer.PublishMessage(ctx, event.OrderID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}

// hasAllShippingFields проверяет полноту адреса доставки
// AdditionalInfo - единственное необязательное поле
func hasAllShippingFields(info *entity.ShippingAddress) bool {
	return info.FirstName != "" && info.LastName != "" && info.Email != "" &&
		info.Phone != "" && info.Street != "" && info.City != "" &&
		info.PostalCode != "" && info.Country != "" && info.State != ""
}

// calculateShippingCost: 0 при пустой корзине, 0 от порога, иначе фикс
func calculateShippingCost(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingCost
}

// initialStatus: creditCard сразу уходит в обработку, cod ждет подтверждения
func initialStatus(paymentMethod string) entity.OrderStatus {
	if paymentMethod == "creditCard" {
		return entity.OrderStatusProcessing
	}
	return entity.OrderStatusPending
}

func findProductByID(products []entity.Product, id int) *entity.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
