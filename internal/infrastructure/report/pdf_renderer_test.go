package report

import (
	"bytes"
	"context"
	"go/build"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/require"

	"diary-bot/internal/domain/entity"
)

// testFont ищет TTF с кириллицей: TEST_FONT_PATH, системный DejaVu или шрифт из модуля fpdf
func testFont(t *testing.T) string {
	t.Helper()
	modCache := os.Getenv("GOMODCACHE")
	if modCache == "" {
		modCache = filepath.Join(build.Default.GOPATH, "pkg", "mod")
	}
	candidates := []string{
		os.Getenv("TEST_FONT_PATH"),
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		filepath.Join(modCache, "github.com", "go-pdf", "fpdf@v0.9.0", "font", "DejaVuSansCondensed.ttf"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			abs, err := filepath.Abs(path)
			require.NoError(t, err)
			return abs
		}
	}
	t.Skip("no TTF font available")
	return ""
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleDocument(t *testing.T) *entity.ReportDocument {
	t.Helper()
	return &entity.ReportDocument{
		Title:        "Пищевой дневник за 2024-03-01",
		NormsHeading: "Ваши ежедневные нормы потребления:",
		NormsLines:   []string{"• Белки: 5 порций", "• Овощи: 5 порций"},
		Table: entity.ReportTable{
			Header:       []string{"Приём пищи", "Белки", "Овощи", "Жиры", "Фрукты", "Молочные", "Злаки", "Время"},
			Rows:         [][]string{{"Завтрак", "2", "1", "0", "1", "1", "2", "08:30"}},
			Totals:       []string{"Сумма", "2", "1", "0", "1", "1", "2", ""},
			ColumnRatios: []float64{1.5, 1, 1, 1, 1, 1.2, 1, 1.2},
		},
		RecommendationsHeading: "Рекомендации:",
		Recommendations:        []string{entity.RecVegetables, entity.RecFruits},
		Images: []entity.ReportImage{
			{Caption: "📷 Завтрак в 08:30", Data: pngBytes(t, 40, 30), Format: "png", Width: 40, Height: 30},
			{Caption: "📷 Обед в 13:00", Data: pngBytes(t, 30, 60), Format: "png", Width: 30, Height: 60},
		},
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer, err := NewPDFRenderer(testFont(t), "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, renderer.Render(context.Background(), sampleDocument(t), path))

	file, reader, err := pdf.Open(path)
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, 3, reader.NumPage())
}

func TestPDFRenderer_AbsoluteFontPaths(t *testing.T) {
	data, err := os.ReadFile(testFont(t))
	require.NoError(t, err)

	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	bold := filepath.Join(dir, "bold.ttf")
	require.NoError(t, os.WriteFile(regular, data, 0o644))
	require.NoError(t, os.WriteFile(bold, data, 0o644))
	require.True(t, filepath.IsAbs(regular))

	renderer, err := NewPDFRenderer(regular, bold)
	require.NoError(t, err)

	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, renderer.Render(context.Background(), sampleDocument(t), path))

	file, reader, err := pdf.Open(path)
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, 3, reader.NumPage())
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	_, err := NewPDFRenderer(filepath.Join(t.TempDir(), "missing.ttf"), "")
	require.Error(t, err)
}

func TestFitBox(t *testing.T) {
	w, h := fitBox(200, 100, 100, 100)
	require.InDelta(t, 100, w, 0.001)
	require.InDelta(t, 50, h, 0.001)

	w, h = fitBox(100, 400, 180, 200)
	require.InDelta(t, 50, w, 0.001)
	require.InDelta(t, 200, h, 0.001)
}

func TestPDFText_DropsEmoji(t *testing.T) {
	require.Equal(t, "Завтрак в 08:30", pdfText("📷 Завтрак в 08:30"))
	require.Equal(t, "⚠ Недостаточно", pdfText("⚠️ Недостаточно"))
}
