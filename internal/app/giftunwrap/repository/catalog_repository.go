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
	// Стандартные ошибки репозитория для обработки в service layer
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrReviewNotFound   = errors.New("review not found")
)

const productsCollection = "products"

type catalogRepository struct {
	collection *mongo.Collection
}

// NewCatalogRepository создает новый репозиторий каталога
// Автоматически создает индексы по products.id и products.reviews._id,
// чтобы поиск товара по числовому id не требовал полного скана коллекции
func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	collection := db.Collection(productsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "products.id", Value: 1}},
			Options: options.Index().SetName("products_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "products.reviews._id", Value: 1}},
			Options: options.Index().SetName("products_reviews_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_idx").SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Индексы могут уже существовать, работу не прерываем
		logger.Warn().Err(err).Msg("Failed to create catalog indexes")
	}

	return &catalogRepository{collection: collection}
}

// GetAll получает все документы категорий вместе со встроенными товарами
func (r *catalogRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "find", productsCollection).Inc()
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	metrics.MongoOperationDuration.WithLabelValues(serviceName, "find", productsCollection).Observe(time.Since(start).Seconds())
	return categories, nil
}

// GetByCategory получает документ категории по имени
func (r *catalogRepository) GetByCategory(ctx context.Context, category string) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"category": category}, ErrCategoryNotFound)
}

// GetByProductID находит категорию, содержащую товар с данным числовым id
// Использует индекс products_id_idx вместо линейного скана всех категорий
func (r *catalogRepository) GetByProductID(ctx context.Context, productID int) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"products.id": productID}, ErrProductNotFound)
}

// GetByProductObjectID находит категорию, содержащую товар с данным Mongo _id
func (r *catalogRepository) GetByProductObjectID(ctx context.Context, productOID primitive.ObjectID) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"products._id": productOID}, ErrProductNotFound)
}

// GetByEmbeddedReviewID находит категорию, в товарах которой есть отзыв с данным _id
func (r *catalogRepository) GetByEmbeddedReviewID(ctx context.Context, reviewID primitive.ObjectID) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"products.reviews._id": reviewID}, ErrReviewNotFound)
}

func (r *catalogRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*entity.Category, error) {
	start := time.Now()

	var category entity.Category
	err := r.collection.FindOne(ctx, filter).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "findOne", productsCollection).Inc()
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	metrics.MongoOperationDuration.WithLabelValues(serviceName, "findOne", productsCollection).Observe(time.Since(start).Seconds())
	return &category, nil
}

// Create создает новый документ категории
func (r *catalogRepository) Create(ctx context.Context, category *entity.Category) error {
	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "insertOne", productsCollection).Inc()
		return fmt.Errorf("failed to create category: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}

	return nil
}

// UpdateProducts записывает обратно полный список товаров категории
// Это паттерн "прочитал документ - изменил в памяти - записал обратно";
// версионирования нет, при гонке побеждает последняя запись
func (r *catalogRepository) UpdateProducts(ctx context.Context, categoryID primitive.ObjectID, products []entity.Product) error {
	filter := bson.M{"_id": categoryID}
	update := bson.M{"$set": bson.M{"products": products}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "updateOne", productsCollection).Inc()
		return fmt.Errorf("failed to update category products: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// DeleteAll удаляет все документы категорий
func (r *catalogRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "deleteMany", productsCollection).Inc()
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	return nil
}
