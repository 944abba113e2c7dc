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
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

const usersCollection = "users"

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository создает новый репозиторий пользователей
// Создает уникальный индекс по email
func NewUserRepository(db *mongo.Database) UserRepository {
	collection := db.Collection(usersCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_idx").SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn().Err(err).Msg("Failed to create user email index")
	}

	return &userRepository{collection: collection}
}

// Create сохраняет нового пользователя
// Дубликат email транслируется в ErrUserExists
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "insertOne", usersCollection).Inc()
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	return nil
}

// GetByEmail получает пользователя по email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "findOne", usersCollection).Inc()
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		metrics.MongoErrors.WithLabelValues(serviceName, "findOne", usersCollection).Inc()
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdatePassword перезаписывает хэш пароля пользователя
func (r *userRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	filter := bson.M{"email": email}
	update := bson.M{"$set": bson.M{"password": passwordHash}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "updateOne", usersCollection).Inc()
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetAll получает всех пользователей
func (r *userRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "find", usersCollection).Inc()
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// Delete удаляет пользователя по ID
func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.MongoErrors.WithLabelValues(serviceName, "deleteOne", usersCollection).Inc()
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}
