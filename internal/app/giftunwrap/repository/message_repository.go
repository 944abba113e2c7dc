package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCollection = "messages"

type messageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository создает новый репозиторий сообщений обратной связи
func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{collection: db.Collection(messagesCollection)}
}

// Create сохраняет сообщение с серверной меткой времени
func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	message.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "insertOne", messagesCollection).Inc()
		return fmt.Errorf("failed to create message: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid
	}

	return nil
}

// GetAll получает все сообщения, новые первыми
func (r *messageRepository) GetAll(ctx context.Context) ([]entity.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "find", messagesCollection).Inc()
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []entity.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}
