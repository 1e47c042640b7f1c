package entity

const (
	RecProteinLow  = "⚠️ Недостаточное потребление белка. Добавьте в рацион мясо, рыбу, яйца или бобовые."
	RecProteinHigh = "⚠️ Избыточное потребление белка. Уменьшите порции белковых продуктов."
	RecVegetables  = "🥗 Рекомендуется увеличить потребление овощей для лучшего здоровья."
	RecFatsHigh    = "⚠️ Высокое потребление жиров. Обратите внимание на размер порций."
	RecFruits      = "🍎 Добавьте больше фруктов в свой рацион."
	RecBalanced    = "👍 Ваш рацион сбалансирован. Продолжайте в том же духе!"
)

// Analyze сравнивает дневные итоги с нормами и возвращает список рекомендаций.
// Список никогда не пустой. Молочные продукты и злаки в правилах не участвуют.
// Если норма группы <= 0, процентная проверка для неё пропускается.
func Analyze(totals Portions, norms NutritionRecommendations) []string {
	var recs []string

	if percent, ok := percentOf(totals.Protein, norms.Protein); ok {
		if percent < 80 {
			recs = append(recs, RecProteinLow)
		} else if percent > 120 {
			recs = append(recs, RecProteinHigh)
		}
	}

	if totals.Vegetables < norms.Vegetables {
		recs = append(recs, RecVegetables)
	}

	if percent, ok := percentOf(totals.Fats, norms.Fats); ok && percent > 110 {
		recs = append(recs, RecFatsHigh)
	}

	if totals.Fruits < norms.Fruits {
		recs = append(recs, RecFruits)
	}

	if len(recs) == 0 {
		recs = append(recs, RecBalanced)
	}
	return recs
}

func percentOf(value, norm int) (float64, bool) {
	if norm <= 0 {
		return 0, false
	}
	return float64(value) / float64(norm) * 100, true
}
