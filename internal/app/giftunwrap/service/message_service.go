package service

import (
	"context"
	"fmt"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"
)

// MessageService обрабатывает сообщения формы обратной связи
type MessageService struct {
	messageRepo repository.MessageRepository
}

func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// CreateMessage сохраняет сообщение обратной связи
func (s *MessageService) CreateMessage(ctx context.Context, req *entity.CreateMessageRequest) (*entity.Message, error) {
	message := &entity.Message{
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Content,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	metrics.MessagesCreated.Inc()

	return message, nil
}

// GetMessages возвращает все сообщения от новых к старым
func (s *MessageService) GetMessages(ctx context.Context) ([]entity.Message, error) {
	messages, err := s.messageRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}
