package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateReview - нарушение уникальности (productId, productCategory, user)
	ErrDuplicateReview = errors.New("review already exists for this product and category")
)

const reviewsCollection = "reviews"

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отдельных отзывов
// Создает уникальный составной индекс (productId, productCategory, user):
// один автор может оставить не более одного отзыва на товар в категории
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(reviewsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "productId", Value: 1},
			{Key: "productCategory", Value: 1},
			{Key: "user", Value: 1},
		},
		Options: options.Index().SetName("product_category_user_idx").SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn().Err(err).Msg("Failed to create review uniqueness index")
	}

	return &reviewRepository{collection: collection}
}

// Create сохраняет новый отзыв с серверной меткой времени
// Дубликат по уникальному индексу транслируется в ErrDuplicateReview
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	review.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "insertOne", reviewsCollection).Inc()
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// Exists проверяет наличие отзыва для тройки (productId, productCategory, user)
func (r *reviewRepository) Exists(ctx context.Context, productID int, productCategory string, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"productId":       productID,
		"productCategory": productCategory,
		"user":            userID,
	}

	err := r.collection.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "findOne", reviewsCollection).Inc()
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}

	return true, nil
}

// GetByProduct получает отзывы товара в категории, новые первыми
func (r *reviewRepository) GetByProduct(ctx context.Context, productID int, productCategory string) ([]entity.Review, error) {
	filter := bson.M{"productId": productID, "productCategory": productCategory}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "find", reviewsCollection).Inc()
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}
