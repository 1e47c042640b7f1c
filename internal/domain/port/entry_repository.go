package port

import (
	"context"

	"diary-bot/internal/domain/entity"
)

// EntryRepository интерфейс хранилища записей дневника
type EntryRepository interface {
	// AddEntry сохраняет запись вместе со ссылками на фото и возвращает её ID
	AddEntry(ctx context.Context, entry *entity.DiaryEntry) (int64, error)

	// GetEntries возвращает записи пользователя за дату в порядке времени
	GetEntries(ctx context.Context, userID int64, date string) ([]entity.DiaryEntry, error)

	// GetEntriesForPeriod возвращает записи за период [startDate, endDate] включительно
	GetEntriesForPeriod(ctx context.Context, userID int64, startDate, endDate string) ([]entity.DiaryEntry, error)
}

// NormsRepository интерфейс хранилища дневных норм
type NormsRepository interface {
	// GetNorms возвращает нормы пользователя; found == false если он их не задавал
	GetNorms(ctx context.Context, userID int64) (norms entity.NutritionRecommendations, found bool, err error)

	// SaveNorms сохраняет нормы пользователя
	SaveNorms(ctx context.Context, userID int64, norms entity.NutritionRecommendations) error
}
