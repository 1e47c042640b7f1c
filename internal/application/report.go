package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

const imageLoadLimit = 4

const (
	msgReportCaption = "📄 Ваш пищевой дневник за %s"
	msgReportEmpty   = "📭 За %s записей не найдено."
	msgReportFailed  = "⚠️ Не удалось сформировать отчёт. Попробуйте позже."
	msgReportBadDate = "Неверный формат даты. Используйте ГГГГ-ММ-ДД, например /view 2024-03-01."
)

var (
	reportHeader = []string{"Приём пищи", "Белки", "Овощи", "Жиры", "Фрукты", "Молочные", "Злаки", "Время"}
	columnRatios = []float64{1.5, 1, 1, 1, 1, 1.2, 1, 1.2}
)

// ReportService собирает дневной отчёт и передаёт его на вёрстку
type ReportService struct {
	entries    port.EntryRepository
	norms      port.NormsRepository
	photos     port.PhotoStorage
	renderer   port.ReportRenderer
	reportsDir string
	now        func() time.Time
}

func NewReportService(entries port.EntryRepository, norms port.NormsRepository, photos port.PhotoStorage, renderer port.ReportRenderer, reportsDir string) *ReportService {
	return &ReportService{
		entries:    entries,
		norms:      norms,
		photos:     photos,
		renderer:   renderer,
		reportsDir: reportsDir,
		now:        time.Now,
	}
}

// View формирует отчёт за date (сегодня по Москве, если пусто) и возвращает ответ с документом.
// Пустой день и ошибка вёрстки превращаются в текстовый ответ.
func (s *ReportService) View(ctx context.Context, userID int64, date string) (*Reply, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = entity.DateIn(s.now())
	} else if _, err := time.Parse(entity.DateLayout, date); err != nil {
		return &Reply{Text: msgReportBadDate}, nil
	}

	path, err := s.Generate(ctx, userID, date)
	switch {
	case errors.Is(err, entity.ErrNoEntries):
		return &Reply{Text: fmt.Sprintf(msgReportEmpty, date)}, nil
	case err != nil:
		slog.Error("report failed", "user_id", userID, "date", date, "err", err)
		return &Reply{Text: msgReportFailed}, nil
	}
	return &Reply{Text: fmt.Sprintf(msgReportCaption, date), Document: path}, nil
}

// Generate строит PDF за дату и возвращает путь к файлу.
// entity.ErrNoEntries если за день нет записей.
func (s *ReportService) Generate(ctx context.Context, userID int64, date string) (string, error) {
	entries, err := s.entries.GetEntries(ctx, userID, date)
	if err != nil {
		return "", fmt.Errorf("get entries: %w", err)
	}
	if len(entries) == 0 {
		return "", entity.ErrNoEntries
	}

	norms, custom, err := s.norms.GetNorms(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get norms: %w", err)
	}
	if !custom {
		norms = entity.DefaultRecommendations()
	}

	doc := s.BuildDocument(ctx, date, entries, norms, custom)

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(s.reportsDir, fmt.Sprintf("%d_%s.pdf", userID, date))
	if err := s.renderer.Render(ctx, doc, path); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	slog.Info("report generated", "user_id", userID, "date", date, "path", path)
	return path, nil
}

// BuildDocument собирает блоки отчёта: заголовок, нормы, таблицу с итогами,
// рекомендации и фотографии в порядке записей.
func (s *ReportService) BuildDocument(ctx context.Context, date string, entries []entity.DiaryEntry, norms entity.NutritionRecommendations, custom bool) *entity.ReportDocument {
	totals := entity.SumPortions(entries)

	return &entity.ReportDocument{
		Title:                  fmt.Sprintf("Пищевой дневник за %s", date),
		NormsHeading:           "Ваши ежедневные нормы потребления:",
		NormsLines:             normsLines(norms, custom),
		Table:                  buildTable(entries, totals),
		RecommendationsHeading: "Рекомендации:",
		Recommendations:        entity.Analyze(totals, norms),
		Images:                 s.loadImages(ctx, entries),
	}
}

func normsLines(norms entity.NutritionRecommendations, custom bool) []string {
	lines := make([]string, 0, len(entity.NutrientOrder))
	for _, kind := range entity.NutrientOrder {
		value := "?"
		if custom {
			value = strconv.Itoa(norms.Daily(kind))
		}
		lines = append(lines, fmt.Sprintf("• %s: %s порций", kind.Title(), value))
	}
	return lines
}

func buildTable(entries []entity.DiaryEntry, totals entity.Portions) entity.ReportTable {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{e.MealTime}
		row = append(row, portionCells(e.Portions)...)
		rows = append(rows, append(row, e.LocalClock()))
	}

	totalRow := append([]string{"Сумма"}, portionCells(totals)...)
	return entity.ReportTable{
		Header:       reportHeader,
		Rows:         rows,
		Totals:       append(totalRow, ""),
		ColumnRatios: columnRatios,
	}
}

func portionCells(p entity.Portions) []string {
	cells := make([]string, 0, len(entity.NutrientOrder))
	for _, kind := range entity.NutrientOrder {
		cells = append(cells, strconv.Itoa(p.Get(kind)))
	}
	return cells
}

type imageRef struct {
	key     string
	caption string
}

// loadImages читает фото из хранилища. Фото, которое не удалось прочитать
// или распознать, пропускается.
func (s *ReportService) loadImages(ctx context.Context, entries []entity.DiaryEntry) []entity.ReportImage {
	var refs []imageRef
	for _, e := range entries {
		for _, key := range e.ImagePaths {
			refs = append(refs, imageRef{key: key, caption: fmt.Sprintf("📷 %s в %s", e.MealTime, e.LocalClock())})
		}
	}
	if len(refs) == 0 {
		return nil
	}

	loaded := make([]*entity.ReportImage, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageLoadLimit)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			img, err := s.loadImage(gctx, ref)
			if err != nil {
				slog.Warn("skip report image", "key", ref.key, "err", err)
				return nil
			}
			loaded[i] = img
			return nil
		})
	}
	_ = g.Wait()

	images := make([]entity.ReportImage, 0, len(refs))
	for _, img := range loaded {
		if img != nil {
			images = append(images, *img)
		}
	}
	return images
}

func (s *ReportService) loadImage(ctx context.Context, ref imageRef) (*entity.ReportImage, error) {
	data, err := s.photos.Load(ctx, ref.key)
	if err != nil {
		return nil, fmt.Errorf("load photo: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("unsupported photo format %q", format)
	}
	return &entity.ReportImage{
		Caption: ref.caption,
		Data:    data,
		Format:  format,
		Width:   cfg.Width,
		Height:  cfg.Height,
	}, nil
}
