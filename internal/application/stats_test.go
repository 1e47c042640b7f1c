package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diary-bot/internal/domain/entity"
)

func TestStatsService_Summary(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := NewStatsService(repo, 7)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, entity.Moscow)
	svc.now = func() time.Time { return now }

	addEntry(t, repo, "Обед", entity.Portions{Protein: 1}, nil, now.AddDate(0, 0, -7))
	addEntry(t, repo, "Ужин", entity.Portions{Dairy: 2}, nil, now.AddDate(0, 0, -6))
	addEntry(t, repo, "Завтрак", entity.Portions{Protein: 2}, nil, now.AddDate(0, 0, -2))
	addEntry(t, repo, "Ужин", entity.Portions{Protein: 3, Fruits: 1}, nil, now.AddDate(0, 0, -2).Add(time.Hour))
	addEntry(t, repo, "Обед", entity.Portions{Grains: 4}, nil, now)

	days, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	// окно из 7 дат: с 04.03 по 10.03 включительно
	require.Len(t, days, 3)
	require.Equal(t, "2024-03-04", days[0].Date)
	require.Equal(t, 2, days[0].Totals.Dairy)
	require.Equal(t, "2024-03-08", days[1].Date)
	require.Equal(t, 5, days[1].Totals.Protein)
	require.Equal(t, 1, days[1].Totals.Fruits)
	require.Equal(t, "2024-03-10", days[2].Date)
	require.Equal(t, 4, days[2].Totals.Grains)
}

func TestStatsService_ReportEmpty(t *testing.T) {
	svc := NewStatsService(newFakeEntryRepo(), 7)

	reply, err := svc.Report(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "📊 Нет данных за последнюю неделю.", reply.Text)

	reply, err = NewStatsService(newFakeEntryRepo(), 3).Report(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "📊 Нет данных за последние 3 дня.", reply.Text)
}

func TestFormatStats(t *testing.T) {
	text := FormatStats([]DayTotals{{Date: "2024-03-08", Totals: entity.Portions{Protein: 5}}}, 14)

	require.Contains(t, text, "за последние 14 дней")
	require.Contains(t, text, "*08.03.2024*")
	require.Contains(t, text, "🍗 Белки: 5 порций")
	require.Contains(t, text, "🍞 Злаки: 0 порций")
}

func TestDayWord(t *testing.T) {
	for n, want := range map[int]string{1: "день", 3: "дня", 5: "дней", 11: "дней", 14: "дней", 21: "день", 22: "дня", 30: "дней"} {
		require.Equal(t, want, dayWord(n), "n=%d", n)
	}
}
