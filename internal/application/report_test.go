package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diary-bot/internal/domain/entity"
)

func pngPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func addEntry(t *testing.T, repo *fakeEntryRepo, meal string, p entity.Portions, photos []string, at time.Time) {
	t.Helper()
	_, err := repo.AddEntry(context.Background(), entity.NewDiaryEntry(1, meal, p, photos, at))
	require.NoError(t, err)
}

func TestReportService_BuildDocument(t *testing.T) {
	repo := newFakeEntryRepo()
	photos := newFakePhotoStore()
	ctx := context.Background()
	require.NoError(t, photos.Save(ctx, "good.png", pngPhoto(t)))
	require.NoError(t, photos.Save(ctx, "broken.jpg", []byte("not an image")))

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, entity.Moscow)
	addEntry(t, repo, "Завтрак", entity.Portions{Protein: 2, Vegetables: 5}, []string{"good.png", "broken.jpg", "missing.jpg"}, base)
	addEntry(t, repo, "Обед", entity.Portions{Protein: 3, Vegetables: 5}, nil, base.Add(5*time.Hour))
	addEntry(t, repo, "Ужин", entity.Portions{Protein: 4, Vegetables: 5}, nil, base.Add(10*time.Hour))

	svc := NewReportService(repo, repo, photos, &fakeRenderer{}, t.TempDir())
	entries, err := repo.GetEntries(ctx, 1, "2024-03-01")
	require.NoError(t, err)

	doc := svc.BuildDocument(ctx, "2024-03-01", entries, entity.DefaultRecommendations(), false)

	require.Equal(t, "Пищевой дневник за 2024-03-01", doc.Title)
	require.Len(t, doc.NormsLines, 6)
	require.Equal(t, "• Белки: ? порций", doc.NormsLines[0])

	require.Len(t, doc.Table.Rows, 3)
	require.Equal(t, []string{"Завтрак", "2", "5", "0", "0", "0", "0", "08:00"}, doc.Table.Rows[0])
	require.Equal(t, []string{"Сумма", "9", "15", "0", "0", "0", "0", ""}, doc.Table.Totals)
	require.Len(t, doc.Table.ColumnRatios, len(doc.Table.Header))

	// белки 9 из 5 (180%), овощи 15 из 5, фрукты 0
	require.Equal(t, []string{entity.RecProteinHigh, entity.RecFruits}, doc.Recommendations)

	require.Len(t, doc.Images, 1)
	require.Equal(t, "📷 Завтрак в 08:00", doc.Images[0].Caption)
	require.Equal(t, "png", doc.Images[0].Format)
	require.Equal(t, 8, doc.Images[0].Width)
}

func TestReportService_BuildDocumentCustomNorms(t *testing.T) {
	svc := NewReportService(newFakeEntryRepo(), newFakeEntryRepo(), newFakePhotoStore(), &fakeRenderer{}, t.TempDir())
	norms := entity.DefaultRecommendations()
	norms.Protein = 7

	doc := svc.BuildDocument(context.Background(), "2024-03-01", nil, norms, true)
	require.Equal(t, "• Белки: 7 порций", doc.NormsLines[0])
	require.Equal(t, []string{"Сумма", "0", "0", "0", "0", "0", "0", ""}, doc.Table.Totals)
}

func TestReportService_Generate(t *testing.T) {
	repo := newFakeEntryRepo()
	renderer := &fakeRenderer{}
	dir := t.TempDir()
	svc := NewReportService(repo, repo, newFakePhotoStore(), renderer, dir)
	ctx := context.Background()

	_, err := svc.Generate(ctx, 1, "2024-03-01")
	require.ErrorIs(t, err, entity.ErrNoEntries)
	require.Nil(t, renderer.doc)

	addEntry(t, repo, "Обед", entity.Portions{Protein: 5}, nil, time.Date(2024, 3, 1, 13, 0, 0, 0, entity.Moscow))

	path, err := svc.Generate(ctx, 1, "2024-03-01")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "1_2024-03-01.pdf"), path)
	require.Equal(t, path, renderer.path)
	require.NotNil(t, renderer.doc)
}

func TestReportService_View(t *testing.T) {
	repo := newFakeEntryRepo()
	renderer := &fakeRenderer{}
	svc := NewReportService(repo, repo, newFakePhotoStore(), renderer, t.TempDir())
	svc.now = func() time.Time { return time.Date(2024, 2, 29, 22, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	reply, err := svc.View(ctx, 1, "01.03.2024")
	require.NoError(t, err)
	require.Equal(t, msgReportBadDate, reply.Text)

	// 22:30 UTC это уже 1 марта по Москве
	reply, err = svc.View(ctx, 1, "")
	require.NoError(t, err)
	require.Contains(t, reply.Text, "2024-03-01")
	require.Empty(t, reply.Document)

	addEntry(t, repo, "Завтрак", entity.Portions{Fruits: 1}, nil, time.Date(2024, 3, 1, 9, 0, 0, 0, entity.Moscow))
	reply, err = svc.View(ctx, 1, "")
	require.NoError(t, err)
	require.NotEmpty(t, reply.Document)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	renderer.err = errors.New("disk full")
	reply, err = svc.View(ctx, 1, "2024-03-01")
	require.NoError(t, err)
	require.Equal(t, msgReportFailed, reply.Text)
	require.Empty(t, reply.Document)
	require.Equal(t, 1, strings.Count(logs.String(), "level=ERROR"), logs.String())
	require.Contains(t, logs.String(), "disk full")
}
