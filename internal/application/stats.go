package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

var statsIcons = map[entity.NutrientKind]string{
	entity.Protein:    "🍗",
	entity.Vegetables: "🥦",
	entity.Fats:       "🥑",
	entity.Fruits:     "🍎",
	entity.Dairy:      "🥛",
	entity.Grains:     "🍞",
}

// DayTotals итоги за один день
type DayTotals struct {
	Date   string
	Totals entity.Portions
}

// StatsService считает статистику за последние дни
type StatsService struct {
	entries port.EntryRepository
	days    int
	now     func() time.Time
}

func NewStatsService(entries port.EntryRepository, days int) *StatsService {
	if days <= 0 {
		days = 7
	}
	return &StatsService{entries: entries, days: days, now: time.Now}
}

// Summary возвращает итоги по дням за последние s.days календарных дат,
// включая сегодняшнюю; даты по возрастанию
func (s *StatsService) Summary(ctx context.Context, userID int64) ([]DayTotals, error) {
	end := s.now().In(entity.Moscow)
	start := end.AddDate(0, 0, 1-s.days)

	entries, err := s.entries.GetEntriesForPeriod(ctx, userID, start.Format(entity.DateLayout), end.Format(entity.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("get entries for period: %w", err)
	}

	var days []DayTotals
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			i = len(days)
			index[e.Date] = i
			days = append(days, DayTotals{Date: e.Date})
		}
		days[i].Totals = days[i].Totals.Add(e.Portions)
	}
	return days, nil
}

// Report возвращает статистику в виде ответа
func (s *StatsService) Report(ctx context.Context, userID int64) (*Reply, error) {
	days, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return &Reply{Text: fmt.Sprintf("📊 Нет данных за %s.", periodPhrase(s.days))}, nil
	}
	return &Reply{Text: FormatStats(days, s.days), Markdown: true}, nil
}

// FormatStats форматирует итоги по дням за period дней в Markdown
func FormatStats(days []DayTotals, period int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Статистика питания за %s:*\n", periodPhrase(period))
	for _, day := range days {
		date := day.Date
		if t, err := time.Parse(entity.DateLayout, day.Date); err == nil {
			date = t.Format("02.01.2006")
		}
		fmt.Fprintf(&b, "\n📅 *%s*\n", date)
		for _, kind := range entity.NutrientOrder {
			fmt.Fprintf(&b, "%s %s: %d порций\n", statsIcons[kind], kind.Title(), day.Totals.Get(kind))
		}
	}
	return b.String()
}

func periodPhrase(days int) string {
	if days == 7 {
		return "последнюю неделю"
	}
	return fmt.Sprintf("последние %d %s", days, dayWord(days))
}

// dayWord склоняет "день" по числу
func dayWord(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return "дней"
	case n%10 == 1:
		return "день"
	case n%10 >= 2 && n%10 <= 4:
		return "дня"
	default:
		return "дней"
	}
}
