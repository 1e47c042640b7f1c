package storage

import (
	"context"
	"sync"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

type sessionKey struct {
	userID int64
	chatID int64
}

// MemorySessionRepository in-memory хранилище сессий
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[sessionKey]*entity.Session),
	}
}

// Get возвращает сессию, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	key := sessionKey{userID: userID, chatID: chatID}

	r.mu.RLock()
	session, exists := r.sessions[key]
	r.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Создаём новую сессию
	newSession := entity.NewSession(userID, chatID)

	r.mu.Lock()
	r.sessions[key] = newSession
	r.mu.Unlock()

	return newSession, nil
}

// Save сохраняет состояние сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[sessionKey{userID: session.UserID, chatID: session.ChatID}] = session
	r.mu.Unlock()

	return nil
}

// Delete удаляет сессию
func (r *MemorySessionRepository) Delete(ctx context.Context, userID, chatID int64) error {
	r.mu.Lock()
	delete(r.sessions, sessionKey{userID: userID, chatID: chatID})
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
