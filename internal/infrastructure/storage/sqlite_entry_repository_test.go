package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diary-bot/internal/domain/entity"
)

func newTestSQLite(t *testing.T) *SQLiteEntryRepository {
	t.Helper()
	repo, err := NewSQLiteEntryRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteEntryRepository_AddAndGetEntries(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 8, 30, 0, 0, entity.Moscow)
	first := entity.NewDiaryEntry(7, "Завтрак", entity.Portions{Protein: 2, Grains: 1}, []string{"a.jpg", "b.jpg"}, at)
	id, err := repo.AddEntry(ctx, first)
	require.NoError(t, err)
	require.Positive(t, id)
	require.Equal(t, id, first.ID)

	second := entity.NewDiaryEntry(7, "Обед", entity.Portions{Protein: 3}, nil, at.Add(4*time.Hour))
	_, err = repo.AddEntry(ctx, second)
	require.NoError(t, err)

	// чужая запись
	_, err = repo.AddEntry(ctx, entity.NewDiaryEntry(8, "Ужин", entity.Portions{Fats: 1}, nil, at))
	require.NoError(t, err)

	entries, err := repo.GetEntries(ctx, 7, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "Завтрак", entries[0].MealTime)
	require.Equal(t, []string{"a.jpg", "b.jpg"}, entries[0].ImagePaths)
	require.Equal(t, 2, entries[0].Portions.Protein)
	require.Equal(t, "08:30", entries[0].LocalClock())

	require.Equal(t, "Обед", entries[1].MealTime)
	require.Empty(t, entries[1].ImagePaths)
}

func TestSQLiteEntryRepository_GetEntriesEmptyDay(t *testing.T) {
	repo := newTestSQLite(t)

	entries, err := repo.GetEntries(context.Background(), 1, "2024-01-01")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSQLiteEntryRepository_GetEntriesForPeriod(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, entity.Moscow)
	for day := 0; day < 5; day++ {
		_, err := repo.AddEntry(ctx, entity.NewDiaryEntry(1, "Обед", entity.Portions{Vegetables: day}, nil, base.AddDate(0, 0, day)))
		require.NoError(t, err)
	}

	entries, err := repo.GetEntriesForPeriod(ctx, 1, "2024-03-02", "2024-03-04")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "2024-03-02", entries[0].Date)
	require.Equal(t, "2024-03-04", entries[2].Date)
}

func TestSQLiteEntryRepository_Norms(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	norms, found, err := repo.GetNorms(ctx, 5)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, entity.DefaultRecommendations(), norms)

	custom := entity.NutritionRecommendations{Portions: entity.Portions{Protein: 4, Vegetables: 6, Fats: 2, Fruits: 3, Dairy: 2, Grains: 5}}
	require.NoError(t, repo.SaveNorms(ctx, 5, custom))

	norms, found, err = repo.GetNorms(ctx, 5)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, custom, norms)

	custom.Protein = 9
	require.NoError(t, repo.SaveNorms(ctx, 5, custom))

	norms, _, err = repo.GetNorms(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 9, norms.Protein)
}
