package util

import (
	"context"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
)

// CatalogCache интерфейс для работы с Redis кешем каталога
// Используется для dependency injection и упрощения тестирования
type CatalogCache interface {
	SetCatalog(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetCatalog(ctx context.Context) ([]entity.Category, error)
	DeleteCatalog(ctx context.Context) error
	Close() error
}

// FileStore интерфейс хранилища загружаемых файлов
// Возвращает URL, под которыми сохраненные файлы раздаются клиентам
type FileStore interface {
	Save(filename string, data []byte) (string, error)
}
