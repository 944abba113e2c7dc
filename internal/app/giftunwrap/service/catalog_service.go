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
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/util"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// catalogCacheTTL - время жизни кеша каталога в Redis
const catalogCacheTTL = time.Hour

// CatalogService обрабатывает бизнес-логику каталога товаров
// Чтение каталога идет через Redis-кеш, мутации его инвалидируют
type CatalogService struct {
	catalogRepo   repository.CatalogRepository
	cache         util.CatalogCache
	fileStore     util.FileStore
	kafkaProducer infrastructure.MessagePublisher
}

// NewCatalogService создает новый сервис каталога
func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	cache util.CatalogCache,
	fileStore util.FileStore,
	kafkaProducer infrastructure.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		catalogRepo:   catalogRepo,
		cache:         cache,
		fileStore:     fileStore,
		kafkaProducer: kafkaProducer,
	}
}

// GetAllProducts возвращает все документы категорий со встроенными товарами
// Сначала проверяется Redis, при промахе каталог читается из MongoDB
// и кладется в кеш; отказ Redis каталог не блокирует
func (s *CatalogService) GetAllProducts(ctx context.Context) ([]entity.Category, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCatalog(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read catalog cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	categories, err := s.catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, categories, catalogCacheTTL); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache catalog")
		}
	}

	return categories, nil
}

// GetProductByID возвращает товар по числовому ID вместе с именем категории
func (s *CatalogService) GetProductByID(ctx context.Context, productID int) (*entity.Product, string, error) {
	categoryDoc, err := s.catalogRepo.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, "", fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, "", fmt.Errorf("failed to look up product: %w", err)
	}

	product := findProductByID(categoryDoc.Products, productID)
	if product == nil {
		return nil, "", fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}

	return product, categoryDoc.Category, nil
}

// UploadedImage - загруженный через админ-форму файл изображения
type UploadedImage struct {
	Filename string
	Data     []byte
}

// CreateProductCategory добавляет товар в каталог через админ-портал
// Если документ категории уже существует, товар дописывается в его список,
// иначе создается новый документ; изображения сохраняются в файловое
// хранилище, а их URL записываются в товар
func (s *CatalogService) CreateProductCategory(ctx context.Context, categoryName string, productsJSON string, images []UploadedImage) (*entity.Category, error) {
	if categoryName == "" || productsJSON == "" {
		return nil, ErrMissingProductCategory
	}

	var products []entity.Product
	if err := json.Unmarshal([]byte(productsJSON), &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProductPayload, err)
	}
	if len(products) == 0 {
		return nil, ErrInvalidProductPayload
	}

	imageURLs := make([]string, 0, len(images))
	for _, image := range images {
		url, err := s.fileStore.Save(image.Filename, image.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		imageURLs = append(imageURLs, url)
	}

	for i := range products {
		if products[i].ID == 0 {
			return nil, ErrInvalidProductPayload
		}
		products[i].ObjectID = primitive.NewObjectID()
		products[i].Images = imageURLs
		if products[i].Reviews == nil {
			products[i].Reviews = []entity.EmbeddedReview{}
		}
	}

	categoryDoc, err := s.catalogRepo.GetByCategory(ctx, categoryName)
	switch {
	case err == nil:
		categoryDoc.Products = append(categoryDoc.Products, products...)
		if err := s.catalogRepo.UpdateProducts(ctx, categoryDoc.ID, categoryDoc.Products); err != nil {
			return nil, fmt.Errorf("failed to add products to category: %w", err)
		}
	case errors.Is(err, repository.ErrCategoryNotFound):
		categoryDoc = &entity.Category{Category: categoryName, Products: products}
		if err := s.catalogRepo.Create(ctx, categoryDoc); err != nil {
			return nil, fmt.Errorf("failed to create category: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	s.invalidateCache(ctx)

	for _, product := range products {
		s.publishProductEvent(ctx, entity.ProductEvent{
			EventType: "PRODUCT_CREATED",
			ProductID: product.ID,
			Category:  categoryName,
			Name:      product.Name,
			Price:     product.Price,
			Timestamp: time.Now(),
		})
	}

	return categoryDoc, nil
}

// UpdateProductByID обновляет поля товара по его числовому ID
// Отзывы и агрегаты товара при обновлении не трогаются
func (s *CatalogService) UpdateProductByID(ctx context.Context, productID int, updated *entity.Product) (*entity.Product, error) {
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

	if updated.Name != "" {
		product.Name = updated.Name
	}
	if updated.Price != 0 {
		product.Price = updated.Price
	}
	if updated.OriginalPrice != 0 {
		product.OriginalPrice = updated.OriginalPrice
	}
	if updated.Discount != 0 {
		product.Discount = updated.Discount
	}
	if updated.KeyGift != "" {
		product.KeyGift = updated.KeyGift
	}
	if updated.Subcategory != "" {
		product.Subcategory = updated.Subcategory
	}
	if len(updated.Images) > 0 {
		product.Images = updated.Images
	}
	if updated.ShortDescription != "" {
		product.ShortDescription = updated.ShortDescription
	}
	if updated.LongDescription != "" {
		product.LongDescription = updated.LongDescription
	}

	if err := s.catalogRepo.UpdateProducts(ctx, categoryDoc.ID, categoryDoc.Products); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateCache(ctx)

	return product, nil
}

// DeleteProductByObjectID удаляет товар по его MongoDB ObjectID
func (s *CatalogService) DeleteProductByObjectID(ctx context.Context, productOID string) error {
	oid, err := primitive.ObjectIDFromHex(productOID)
	if err != nil {
		return ErrInvalidProductID
	}

	categoryDoc, err := s.catalogRepo.GetByProductObjectID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to look up product: %w", err)
	}

	var removed *entity.Product
	remaining := make([]entity.Product, 0, len(categoryDoc.Products))
	for i := range categoryDoc.Products {
		if categoryDoc.Products[i].ObjectID == oid {
			removed = &categoryDoc.Products[i]
			continue
		}
		remaining = append(remaining, categoryDoc.Products[i])
	}
	if removed == nil {
		return ErrProductNotFound
	}

	if err := s.catalogRepo.UpdateProducts(ctx, categoryDoc.ID, remaining); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateCache(ctx)

	s.publishProductEvent(ctx, entity.ProductEvent{
		EventType: "PRODUCT_DELETED",
		ProductID: removed.ID,
		Category:  categoryDoc.Category,
		Name:      removed.Name,
		Timestamp: time.Now(),
	})

	return nil
}

// DeleteAllProducts очищает весь каталог; используется админ-порталом
// перед полной перезаливкой данных
func (s *CatalogService) DeleteAllProducts(ctx context.Context) error {
	if err := s.catalogRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete catalog: %w", err)
	}

	s.invalidateCache(ctx)

	return nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCatalog(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
}

func (s *CatalogService) publishProductEvent(ctx context.Context, event entity.ProductEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to marshal product event")
		return
	}

	key := fmt.Sprintf("product-%d", event.ProductID)
	if err := s.kafkaProducer.PublishMessage(ctx, key, eventData); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish product event")
	}
}
