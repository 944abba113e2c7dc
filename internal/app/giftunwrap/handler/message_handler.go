package handler

import (
	"net/http"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// MessageHandler обрабатывает HTTP запросы формы обратной связи
type MessageHandler struct {
	messageService *service.MessageService
	validator      *validator.Validate
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		validator:      validator.New(),
	}
}

// CreateMessage обрабатывает POST /api/messages
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req entity.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	message, err := h.messageService.CreateMessage(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to send message", Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}

// GetMessages обрабатывает GET /api/messages
func (h *MessageHandler) GetMessages(c *gin.Context) {
	messages, err := h.messageService.GetMessages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to fetch messages", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, messages)
}
