package photos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diary-bot/internal/domain/port"
)

// FileStore хранит фотографии в локальном каталоге
type FileStore struct {
	basePath string
}

// NewFileStore создаёт каталог, если его нет
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("photo storage path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save записывает фото под ключом key
func (f *FileStore) Save(ctx context.Context, key string, data []byte) error {
	target, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	return nil
}

// Load читает фото по ключу
func (f *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	target, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return data, nil
}

func (f *FileStore) path(key string) (string, error) {
	name := safeFilename(key)
	if name == "" {
		return "", fmt.Errorf("invalid photo key %q", key)
	}
	return filepath.Join(f.basePath, name), nil
}

func safeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == ".." || name == string(os.PathSeparator) {
		return ""
	}
	return name
}

var _ port.PhotoStorage = (*FileStore)(nil)
