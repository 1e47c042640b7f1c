package app

import (
	"context"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *SessionService) Save(ctx context.Context, session *entity.Session) error {
	return s.repo.Save(ctx, session)
}

// Reset завершает диалог и удаляет сессию из хранилища
func (s *SessionService) Reset(ctx context.Context, session *entity.Session) error {
	session.Clear()
	return s.repo.Delete(ctx, session.UserID, session.ChatID)
}

func (s *SessionService) BeginEntry(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.StartEntry()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) BeginNorms(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.StartNorms()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
