package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubFileStore struct {
	saved []string
}

func (s *stubFileStore) Save(filename string, data []byte) (string, error) {
	s.saved = append(s.saved, filename)
	return "/uploads/" + filename, nil
}

func newCatalogServiceWithMocks() (*CatalogService, *mocks.MockCatalogRepository, *mocks.MockCatalogCache, *stubFileStore, *mocks.MockMessagePublisher) {
	catalogRepo := new(mocks.MockCatalogRepository)
	cache := new(mocks.MockCatalogCache)
	fileStore := &stubFileStore{}
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewCatalogService(catalogRepo, cache, fileStore, producer)
	return svc, catalogRepo, cache, fileStore, producer
}

func TestGetAllProducts_CacheHit(t *testing.T) {
	svc, catalogRepo, cache, _, _ := newCatalogServiceWithMocks()
	ctx := context.Background()

	cached := []entity.Category{{ID: primitive.NewObjectID(), Category: "flowers"}}
	cache.On("GetCatalog", ctx).Return(cached, nil)

	result, err := svc.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	catalogRepo.AssertNotCalled(t, "GetAll", ctx)
}

func TestGetAllProducts_CacheMissFillsCache(t *testing.T) {
	svc, catalogRepo, cache, _, _ := newCatalogServiceWithMocks()
	ctx := context.Background()

	categories := []entity.Category{{ID: primitive.NewObjectID(), Category: "flowers"}}
	cache.On("GetCatalog", ctx).Return(nil, nil)
	catalogRepo.On("GetAll", ctx).Return(categories, nil)
	cache.On("SetCatalog", ctx, categories, catalogCacheTTL).Return(nil)

	result, err := svc.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Equal(t, categories, result)
	cache.AssertCalled(t, "SetCatalog", ctx, categories, catalogCacheTTL)
}

// Недоступный Redis не должен ломать чтение каталога
func TestGetAllProducts_CacheErrorFallsThrough(t *testing.T) {
	svc, catalogRepo, cache, _, _ := newCatalogServiceWithMocks()
	ctx := context.Background()

	categories := []entity.Category{{Category: "flowers"}}
	cache.On("GetCatalog", ctx).Return(nil, errors.New("redis down"))
	catalogRepo.On("GetAll", ctx).Return(categories, nil)
	cache.On("SetCatalog", ctx, categories, catalogCacheTTL).Return(errors.New("redis down"))

	result, err := svc.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestCreateProductCategory_NewCategory(t *testing.T) {
	svc, catalogRepo, cache, fileStore, producer := newCatalogServiceWithMocks()
	ctx := context.Background()

	catalogRepo.On("GetByCategory", ctx, "flowers").Return(nil, repository.ErrCategoryNotFound)
	catalogRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	productsJSON := `[{"id": 7, "name": "Rose Bouquet", "price": 50}]`
	images := []UploadedImage{{Filename: "rose.jpg", Data: []byte("fake")}}

	categoryDoc, err := svc.CreateProductCategory(ctx, "flowers", productsJSON, images)

	assert.NoError(t, err)
	assert.Equal(t, "flowers", categoryDoc.Category)
	assert.Len(t, categoryDoc.Products, 1)
	assert.Equal(t, []string{"/uploads/rose.jpg"}, categoryDoc.Products[0].Images)
	assert.Equal(t, []string{"rose.jpg"}, fileStore.saved)
}

func TestCreateProductCategory_AppendsToExisting(t *testing.T) {
	svc, catalogRepo, cache, _, producer := newCatalogServiceWithMocks()
	ctx := context.Background()

	existing := &entity.Category{
		ID:       primitive.NewObjectID(),
		Category: "flowers",
		Products: []entity.Product{{ID: 1, Name: "Tulips"}},
	}
	catalogRepo.On("GetByCategory", ctx, "flowers").Return(existing, nil)
	catalogRepo.On("UpdateProducts", ctx, existing.ID, mock.Anything).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	productsJSON := `[{"id": 7, "name": "Rose Bouquet", "price": 50}]`
	categoryDoc, err := svc.CreateProductCategory(ctx, "flowers", productsJSON, nil)

	assert.NoError(t, err)
	assert.Len(t, categoryDoc.Products, 2)
	catalogRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductCategory_InvalidJSON(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceWithMocks()

	_, err := svc.CreateProductCategory(context.Background(), "flowers", "{not json", nil)

	assert.ErrorIs(t, err, ErrInvalidProductPayload)
}

func TestCreateProductCategory_MissingFields(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceWithMocks()

	_, err := svc.CreateProductCategory(context.Background(), "", "[]", nil)

	assert.ErrorIs(t, err, ErrMissingProductCategory)
}

func TestUpdateProductByID_Success(t *testing.T) {
	svc, catalogRepo, cache, _, _ := newCatalogServiceWithMocks()
	ctx := context.Background()

	category := &entity.Category{
		ID:       primitive.NewObjectID(),
		Category: "flowers",
		Products: []entity.Product{{ID: 7, Name: "Rose Bouquet", Price: 50}},
	}
	catalogRepo.On("GetByProductID", ctx, 7).Return(category, nil)
	catalogRepo.On("UpdateProducts", ctx, category.ID, mock.Anything).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)

	product, err := svc.UpdateProductByID(ctx, 7, &entity.Product{Price: 60})

	assert.NoError(t, err)
	assert.Equal(t, 60.0, product.Price)
	assert.Equal(t, "Rose Bouquet", product.Name) // незаполненные поля не трогаются
}

func TestUpdateProductByID_NotFound(t *testing.T) {
	svc, catalogRepo, _, _, _ := newCatalogServiceWithMocks()
	ctx := context.Background()

	catalogRepo.On("GetByProductID", ctx, 99).Return(nil, repository.ErrProductNotFound)

	_, err := svc.UpdateProductByID(ctx, 99, &entity.Product{Price: 60})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProductByObjectID_Success(t *testing.T) {
	svc, catalogRepo, cache, _, producer := newCatalogServiceWithMocks()
	ctx := context.Background()

	productOID := primitive.NewObjectID()
	category := &entity.Category{
		ID:       primitive.NewObjectID(),
		Category: "flowers",
		Products: []entity.Product{
			{ObjectID: productOID, ID: 7, Name: "Rose Bouquet"},
			{ObjectID: primitive.NewObjectID(), ID: 8, Name: "Tulips"},
		},
	}
	catalogRepo.On("GetByProductObjectID", ctx, productOID).Return(category, nil)
	catalogRepo.On("UpdateProducts", ctx, category.ID, mock.MatchedBy(func(products []entity.Product) bool {
		return len(products) == 1 && products[0].ID == 8
	})).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, svc.DeleteProductByObjectID(ctx, productOID.Hex()))
}

func TestDeleteProductByObjectID_InvalidID(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceWithMocks()

	err := svc.DeleteProductByObjectID(context.Background(), "garbage")

	assert.ErrorIs(t, err, ErrInvalidProductID)
}

func TestDeleteAllProducts_InvalidatesCache(t *testing.T) {
	svc, catalogRepo, cache, _, _ := newCatalogServiceWithMocks()
	ctx := context.Background()

	catalogRepo.On("DeleteAll", ctx).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)

	assert.NoError(t, svc.DeleteAllProducts(ctx))
	cache.AssertCalled(t, "DeleteCatalog", ctx)
}
