package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalFileStore сохраняет загружаемые изображения на диск
// и отдает URL, под которым файл раздается статикой
type LocalFileStore struct {
	dir     string
	baseURL string
}

func NewLocalFileStore(dir, baseURL string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalFileStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save записывает файл под уникальным именем и возвращает его URL
// Оригинальное имя сохраняется только как суффикс для читаемости
func (s *LocalFileStore) Save(filename string, data []byte) (string, error) {
	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

// Dir возвращает директорию хранилища для раздачи статикой
func (s *LocalFileStore) Dir() string {
	return s.dir
}

func sanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
}
