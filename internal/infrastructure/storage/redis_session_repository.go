package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

const sessionKeyPrefix = "diary:session"

// RedisSessionRepository хранит сессии в Redis в виде JSON с TTL,
// незавершённый диалог переживает перезапуск бота
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository создаёт хранилище сессий поверх Redis
func NewRedisSessionRepository(addr, password string, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// Ping проверяет соединение с Redis
func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает клиент
func (r *RedisSessionRepository) Close() error {
	return r.client.Close()
}

// Get возвращает сессию, пустую если ключа нет или срок жизни истёк
func (r *RedisSessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, redisSessionKey(userID, chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewSession(userID, chatID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	session := &entity.Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.UserID = userID
	session.ChatID = chatID
	return session, nil
}

// Save записывает сессию и продлевает TTL
func (r *RedisSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, redisSessionKey(session.UserID, session.ChatID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete удаляет сессию
func (r *RedisSessionRepository) Delete(ctx context.Context, userID, chatID int64) error {
	if err := r.client.Del(ctx, redisSessionKey(userID, chatID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func redisSessionKey(userID, chatID int64) string {
	return fmt.Sprintf("%s:%d:%d", sessionKeyPrefix, chatID, userID)
}

var _ port.SessionRepository = (*RedisSessionRepository)(nil)
