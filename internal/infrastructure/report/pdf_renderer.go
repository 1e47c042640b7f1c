package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

const (
	fontFamily = "DejaVu"
	margin     = 15.0
	lineHeight = 6.0
	cellHeight = 8.0
)

// PDFRenderer верстает дневной отчёт в PDF формата A4
type PDFRenderer struct {
	font     []byte
	boldFont []byte
}

// NewPDFRenderer создаёт рендерер с TTF-шрифтом, поддерживающим кириллицу.
// Если boldFontPath пуст, жирное начертание берётся из fontPath.
func NewPDFRenderer(fontPath, boldFontPath string) (*PDFRenderer, error) {
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", fontPath, err)
	}
	boldFont := font
	if boldFontPath != "" {
		if boldFont, err = os.ReadFile(boldFontPath); err != nil {
			return nil, fmt.Errorf("bold font %q: %w", boldFontPath, err)
		}
	}
	return &PDFRenderer{font: font, boldFont: boldFont}, nil
}

// Render записывает документ в path
func (r *PDFRenderer) Render(ctx context.Context, doc *entity.ReportDocument, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+5)
	// Шрифты передаются байтами: AddUTF8Font ищет файл относительно fontDir
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.font)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", r.boldFont)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Страница %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, pdfText(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHeight+1, pdfText(doc.NormsHeading), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	for _, line := range doc.NormsLines {
		pdf.CellFormat(0, lineHeight, pdfText(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	r.drawTable(pdf, doc.Table)
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHeight+1, pdfText(doc.RecommendationsHeading), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	for _, rec := range doc.Recommendations {
		pdf.MultiCell(0, lineHeight, pdfText(rec), "", "L", false)
		pdf.Ln(1)
	}

	for i, img := range doc.Images {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.drawImage(pdf, fmt.Sprintf("photo-%d", i), img)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) drawTable(pdf *fpdf.Fpdf, table entity.ReportTable) {
	widths := columnWidths(pdf, table)

	pdf.SetFont(fontFamily, "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, cell := range table.Header {
		pdf.CellFormat(widths[i], cellHeight, pdfText(cell), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 9)
	for _, row := range table.Rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], cellHeight, pdfText(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(table.Totals) > 0 {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(240, 240, 240)
		for i, cell := range table.Totals {
			pdf.CellFormat(widths[i], cellHeight, pdfText(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// drawImage выводит фото на отдельной странице, вписывая его в печатную область
func (r *PDFRenderer) drawImage(pdf *fpdf.Fpdf, name string, img entity.ReportImage) {
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHeight+2, pdfText(img.Caption), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	imageType := "JPG"
	if img.Format == "png" {
		imageType = "PNG"
	}
	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))

	pageW, pageH := pdf.GetPageSize()
	maxW := pageW - 2*margin
	maxH := pageH - pdf.GetY() - margin - 10
	w, h := fitBox(float64(img.Width), float64(img.Height), maxW, maxH)

	x := margin + (maxW-w)/2
	pdf.ImageOptions(name, x, pdf.GetY(), w, h, false, opts, 0, "")
}

func columnWidths(pdf *fpdf.Fpdf, table entity.ReportTable) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	printable := pageW - left - right

	cols := len(table.Header)
	ratios := table.ColumnRatios
	if len(ratios) != cols {
		ratios = make([]float64, cols)
		for i := range ratios {
			ratios[i] = 1
		}
	}

	var sum float64
	for _, ratio := range ratios {
		sum += ratio
	}
	widths := make([]float64, cols)
	for i, ratio := range ratios {
		widths[i] = printable * ratio / sum
	}
	return widths
}

// fitBox вписывает прямоугольник w x h в maxW x maxH с сохранением пропорций
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if h*scale > maxH {
		scale = maxH / h
	}
	return w * scale, h * scale
}

// pdfText убирает символы вне BMP и селектор вариантов: во встраиваемом шрифте их нет
func pdfText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r > 0xFFFF || r == 0xFE0F {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

var _ port.ReportRenderer = (*PDFRenderer)(nil)
