package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

const ordersCollection = "orders"

type orderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection(ordersCollection)}
}

// Create сохраняет новый заказ
// Снимки позиций и суммы зафиксированы сервисом и больше не меняются
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	order.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "insertOne", ordersCollection).Inc()
		return fmt.Errorf("failed to create order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}

	return nil
}

// GetAll получает все заказы
func (r *orderRepository) GetAll(ctx context.Context) ([]entity.Order, error) {
	return r.find(ctx, bson.M{})
}

// GetByUser получает заказы, привязанные к пользователю
func (r *orderRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "find", ordersCollection).Inc()
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []entity.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus перезаписывает статус заказа и возвращает обновленный документ
// Единственное изменяемое после создания поле заказа
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status entity.OrderStatus) (*entity.Order, error) {
	filter := bson.M{"_id": orderID}
	update := bson.M{"$set": bson.M{"status": status}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order entity.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "findOneAndUpdate", ordersCollection).Inc()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &order, nil
}

// Delete удаляет заказ по ID
func (r *orderRepository) Delete(ctx context.Context, orderID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": orderID})
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "deleteOne", ordersCollection).Inc()
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// CountByStatus возвращает количество заказов по каждому статусу
// Используется cron-задачей для обновления gauge-метрики orders_by_status
func (r *orderRepository) CountByStatus(ctx context.Context) (map[entity.OrderStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "aggregate", ordersCollection).Inc()
		return nil, fmt.Errorf("failed to aggregate orders by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status entity.OrderStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[entity.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
