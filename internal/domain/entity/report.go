package entity

// ReportDocument собранный отчёт за день, готовый к вёрстке.
// Блоки выводятся в порядке полей: заголовок, нормы, таблица, рекомендации, фото.
type ReportDocument struct {
	Title                  string
	NormsHeading           string
	NormsLines             []string
	Table                  ReportTable
	RecommendationsHeading string
	Recommendations        []string
	Images                 []ReportImage
}

// ReportTable таблица приёмов пищи с итоговой строкой
type ReportTable struct {
	Header       []string
	Rows         [][]string
	Totals       []string
	ColumnRatios []float64 // относительные ширины столбцов
}

// ReportImage фотография блюда с подписью
type ReportImage struct {
	Caption string
	Data    []byte
	Format  string // "jpeg" или "png"
	Width   int
	Height  int
}
