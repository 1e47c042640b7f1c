package port

import (
	"context"

	"diary-bot/internal/domain/entity"
)

// ReportRenderer интерфейс вёрстки отчёта в файл
type ReportRenderer interface {
	// Render размечает документ по страницам и записывает его в path
	Render(ctx context.Context, doc *entity.ReportDocument, path string) error
}
