package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository/mocks"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("giftunwrap-backend-test", "error", io.Discard)
	os.Exit(m.Run())
}

func newOrderTestRouter() (*gin.Engine, *mocks.MockOrderRepository, *mocks.MockCatalogRepository, *mocks.MockMessagePublisher) {
	orderRepo := new(mocks.MockOrderRepository)
	catalogRepo := new(mocks.MockCatalogRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}

	orderService := service.NewOrderService(orderRepo, catalogRepo, producer)
	orderHandler := NewOrderHandler(orderService)

	router := gin.New()
	router.POST("/api/orders", orderHandler.CreateOrder)
	router.GET("/api/orders", orderHandler.GetOrders)
	router.PUT("/api/orders/:id/status", orderHandler.UpdateOrderStatus)
	router.DELETE("/api/orders/:id", orderHandler.DeleteOrder)

	return router, orderRepo, catalogRepo, producer
}

func orderRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"shippingInfo": map[string]string{
			"firstName":  "Anna",
			"lastName":   "Smith",
			"email":      "anna@example.com",
			"phone":      "+1234567890",
			"country":    "Germany",
			"city":       "Berlin",
			"street":     "Hauptstrasse 1",
			"state":      "Berlin",
			"postalCode": "10115",
		},
		"paymentMethod": "cod",
		"orderItems": []map[string]interface{}{
			{"category": "flowers", "id": 7, "name": "Rose Bouquet", "quantity": 2, "price": 50.0},
		},
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderHandler_Created(t *testing.T) {
	router, orderRepo, catalogRepo, producer := newOrderTestRouter()

	category := &entity.Category{
		ID:       primitive.NewObjectID(),
		Category: "flowers",
		Products: []entity.Product{{ID: 7, Name: "Rose Bouquet", Price: 50}},
	}
	catalogRepo.On("GetByCategory", mock.Anything, "flowers").Return(category, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := performJSON(router, http.MethodPost, "/api/orders", orderRequestBody())

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string       `json:"message"`
		Order   entity.Order `json:"order"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100.0, resp.Order.Subtotal)
	assert.Equal(t, 15.0, resp.Order.ShippingCost)
	assert.Equal(t, 115.0, resp.Order.TotalAmount)
}

func TestCreateOrderHandler_MissingShippingField(t *testing.T) {
	router, _, _, _ := newOrderTestRouter()

	body := orderRequestBody()
	body["shippingInfo"].(map[string]string)["city"] = ""

	w := performJSON(router, http.MethodPost, "/api/orders", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Неизвестная категория в корзине это 404, а не ошибка валидации
func TestCreateOrderHandler_UnknownCategory(t *testing.T) {
	router, _, catalogRepo, _ := newOrderTestRouter()

	catalogRepo.On("GetByCategory", mock.Anything, "flowers").Return(nil, repository.ErrCategoryNotFound)

	w := performJSON(router, http.MethodPost, "/api/orders", orderRequestBody())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderHandler_UnknownProduct(t *testing.T) {
	router, _, catalogRepo, _ := newOrderTestRouter()

	category := &entity.Category{
		ID:       primitive.NewObjectID(),
		Category: "flowers",
		Products: []entity.Product{{ID: 8, Name: "Tulips", Price: 30}},
	}
	catalogRepo.On("GetByCategory", mock.Anything, "flowers").Return(category, nil)

	w := performJSON(router, http.MethodPost, "/api/orders", orderRequestBody())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Непредвиденный сбой отдает 500 с текстом исходной ошибки в поле error
func TestCreateOrderHandler_RepoErrorExposed(t *testing.T) {
	router, orderRepo, catalogRepo, _ := newOrderTestRouter()

	category := &entity.Category{
		ID:       primitive.NewObjectID(),
		Category: "flowers",
		Products: []entity.Product{{ID: 7, Name: "Rose Bouquet", Price: 50}},
	}
	catalogRepo.On("GetByCategory", mock.Anything, "flowers").Return(category, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("mongo connection reset"))

	w := performJSON(router, http.MethodPost, "/api/orders", orderRequestBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp entity.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to create order", resp.Message)
	assert.Contains(t, resp.Error, "mongo connection reset")
}

func TestGetOrdersHandler_FilterByUser(t *testing.T) {
	router, orderRepo, _, _ := newOrderTestRouter()

	userID := primitive.NewObjectID()
	orderRepo.On("GetByUser", mock.Anything, userID).Return([]entity.Order{{ID: primitive.NewObjectID()}}, nil)

	w := performJSON(router, http.MethodGet, "/api/orders?userId="+userID.Hex(), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var orders []entity.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
	orderRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestUpdateOrderStatusHandler_InvalidStatus(t *testing.T) {
	router, _, _, _ := newOrderTestRouter()

	orderID := primitive.NewObjectID().Hex()
	w := performJSON(router, http.MethodPut, "/api/orders/"+orderID+"/status", map[string]string{"status": "shiped"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusHandler_NotFound(t *testing.T) {
	router, orderRepo, _, _ := newOrderTestRouter()

	orderID := primitive.NewObjectID()
	orderRepo.On("UpdateStatus", mock.Anything, orderID, entity.OrderStatusShipped).Return(nil, repository.ErrOrderNotFound)

	w := performJSON(router, http.MethodPut, "/api/orders/"+orderID.Hex()+"/status", map[string]string{"status": "shipped"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrderHandler_Success(t *testing.T) {
	router, orderRepo, _, _ := newOrderTestRouter()

	orderID := primitive.NewObjectID()
	orderRepo.On("Delete", mock.Anything, orderID).Return(nil)

	w := performJSON(router, http.MethodDelete, "/api/orders/"+orderID.Hex(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
