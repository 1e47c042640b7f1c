package port

import (
	"context"

	"diary-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий диалога
type SessionRepository interface {
	// Get возвращает сессию по паре (userID, chatID), создаёт пустую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error

	// Delete удаляет сессию
	Delete(ctx context.Context, userID, chatID int64) error
}
