package port

import "context"

// PhotoStorage интерфейс хранилища фотографий блюд
type PhotoStorage interface {
	// Save сохраняет фото под ключом key
	Save(ctx context.Context, key string, data []byte) error

	// Load читает фото по ключу
	Load(ctx context.Context, key string) ([]byte, error)
}

// PhotoProcessor интерфейс подготовки фотографии перед сохранением
type PhotoProcessor interface {
	// Normalize проверяет изображение и приводит его к JPEG разумного размера
	Normalize(ctx context.Context, data []byte) ([]byte, error)
}
