package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/infrastructure"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewService обрабатывает отзывы в обеих формах хранения:
// встроенные в товар внутри документа категории и отдельная коллекция
type ReviewService struct {
	catalogRepo   repository.CatalogRepository
	reviewRepo    repository.ReviewRepository
	userRepo      repository.UserRepository
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов
func NewReviewService(
	catalogRepo repository.CatalogRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		catalogRepo:   catalogRepo,
		reviewRepo:    reviewRepo,
		userRepo:      userRepo,
		kafkaProducer: kafkaProducer,
	}
}

// AddProductReview добавляет встроенный отзыв к товару по его числовому ID
// Имя автора денормализуется в отзыв на момент записи; последующие
// переименования пользователя на старые отзывы не влияют
// Агрегаты rating и numReviews пересчитываются сразу
func (s *ReviewService) AddProductReview(ctx context.Context, productID int, req *entity.AddProductReviewRequest) (*entity.Product, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	userOID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userOID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	categoryDoc, err := s.catalogRepo.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	product := findProductByID(categoryDoc.Products, productID)
	if product == nil {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}

	review := entity.EmbeddedReview{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Username:  user.Name,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	product.Reviews = append(product.Reviews, review)
	recomputeAggregates(product)

	if err := s.catalogRepo.UpdateProducts(ctx, categoryDoc.ID, categoryDoc.Products); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	metrics.ReviewsCreated.WithLabelValues("embedded").Inc()
	metrics.ReviewsRating.Observe(float64(req.Rating))

	event := entity.ReviewEvent{
		EventType:       "REVIEW_CREATED",
		ReviewID:        review.ID.Hex(),
		ProductID:       productID,
		ProductCategory: categoryDoc.Category,
		UserID:          user.ID.Hex(),
		Rating:          req.Rating,
		Timestamp:       time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish review created event")
	}

	return product, nil
}

// DeleteProductReview удаляет встроенный отзыв по его ObjectID
// Товар-владелец находится по ID отзыва, агрегаты пересчитываются
func (s *ReviewService) DeleteProductReview(ctx context.Context, reviewID string) (*entity.Product, error) {
	reviewOID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, ErrInvalidReviewID
	}

	categoryDoc, err := s.catalogRepo.GetByEmbeddedReviewID(ctx, reviewOID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to look up review: %w", err)
	}

	var owner *entity.Product
	for i := range categoryDoc.Products {
		product := &categoryDoc.Products[i]
		for j := range product.Reviews {
			if product.Reviews[j].ID == reviewOID {
				product.Reviews = append(product.Reviews[:j], product.Reviews[j+1:]...)
				owner = product
				break
			}
		}
		if owner != nil {
			break
		}
	}
	if owner == nil {
		return nil, ErrReviewNotFound
	}

	recomputeAggregates(owner)

	if err := s.catalogRepo.UpdateProducts(ctx, categoryDoc.ID, categoryDoc.Products); err != nil {
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}

	return owner, nil
}

// GetAllEmbeddedReviews собирает все встроенные отзывы каталога в плоский список
// для админ-портала; имена авторов дочитываются из коллекции пользователей,
// отзывы удаленных пользователей остаются с user = null
func (s *ReviewService) GetAllEmbeddedReviews(ctx context.Context) ([]entity.AllReviewsEntry, error) {
	categories, err := s.catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	// Кэш авторов на время запроса, пользователи повторяются между отзывами
	authors := make(map[primitive.ObjectID]*entity.ReviewAuthor)

	entries := make([]entity.AllReviewsEntry, 0)
	for _, category := range categories {
		for _, product := range category.Products {
			for _, review := range product.Reviews {
				author, cached := authors[review.UserID]
				if !cached {
					user, err := s.userRepo.GetByID(ctx, review.UserID)
					if err == nil {
						author = &entity.ReviewAuthor{Name: user.Name, Email: user.Email}
					} else if !errors.Is(err, repository.ErrUserNotFound) {
						return nil, fmt.Errorf("failed to look up review author: %w", err)
					}
					authors[review.UserID] = author
				}

				entries = append(entries, entity.AllReviewsEntry{
					ID:              review.ID,
					ProductID:       product.ID,
					ProductName:     product.Name,
					ProductCategory: category.Category,
					UserID:          review.UserID,
					Rating:          review.Rating,
					Comment:         review.Comment,
					CreatedAt:       review.CreatedAt,
					User:            author,
				})
			}
		}
	}

	return entries, nil
}

// CreateReview создает отдельный отзыв
// Повторный отзыв того же автора на тот же товар отклоняется: сначала
// предварительной проверкой, затем уникальным индексом как последним рубежом
func (s *ReviewService) CreateReview(ctx context.Context, req *entity.CreateReviewRequest) (*entity.Review, error) {
	if req.ProductID == nil || req.ProductCategory == "" {
		return nil, ErrMissingProductCategory
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	userOID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	if _, err := s.userRepo.GetByID(ctx, userOID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	exists, err := s.reviewRepo.Exists(ctx, *req.ProductID, req.ProductCategory, userOID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &entity.Review{
		ProductID:       *req.ProductID,
		ProductCategory: req.ProductCategory,
		User:            userOID,
		Comment:         comment,
		CreatedAt:       time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// Гонка двух одновременных запросов разрешается уникальным индексом
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.WithLabelValues("standalone").Inc()

	event := entity.ReviewEvent{
		EventType:       "REVIEW_CREATED",
		ReviewID:        review.ID.Hex(),
		ProductID:       review.ProductID,
		ProductCategory: review.ProductCategory,
		UserID:          review.User.Hex(),
		Timestamp:       time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish review created event")
	}

	return review, nil
}

// GetProductReviews возвращает отдельные отзывы товара от новых к старым
// вместе с именами авторов
func (s *ReviewService) GetProductReviews(ctx context.Context, productID int, productCategory string) ([]entity.ReviewWithUser, error) {
	if productCategory == "" {
		return nil, ErrMissingProductCategory
	}

	reviews, err := s.reviewRepo.GetByProduct(ctx, productID, productCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	result := make([]entity.ReviewWithUser, 0, len(reviews))
	for _, review := range reviews {
		entry := entity.ReviewWithUser{Review: review}
		user, err := s.userRepo.GetByID(ctx, review.User)
		if err == nil {
			entry.Username = user.Name
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up review author: %w", err)
		}
		result = append(result, entry)
	}

	return result, nil
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}

// recomputeAggregates пересчитывает rating и numReviews по текущему
// списку отзывов; без отзывов оба агрегата обнуляются
func recomputeAggregates(product *entity.Product) {
	product.NumReviews = len(product.Reviews)
	if product.NumReviews == 0 {
		product.Rating = 0
		return
	}

	var sum int
	for _, review := range product.Reviews {
		sum += review.Rating
	}
	product.Rating = float64(sum) / float64(product.NumReviews)
}
