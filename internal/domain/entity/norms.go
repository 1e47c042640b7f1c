package entity

// Дневные нормы по умолчанию, в порциях
const (
	DefaultProteinDaily    = 5
	DefaultVegetablesDaily = 5
	DefaultFatsDaily       = 3
	DefaultFruitsDaily     = 4
	DefaultDairyDaily      = 3
	DefaultGrainsDaily     = 6
)

// NutritionRecommendations дневные нормы пользователя
type NutritionRecommendations struct {
	Portions
}

// DefaultRecommendations возвращает нормы по умолчанию
func DefaultRecommendations() NutritionRecommendations {
	return NutritionRecommendations{Portions: Portions{
		Protein:    DefaultProteinDaily,
		Vegetables: DefaultVegetablesDaily,
		Fats:       DefaultFatsDaily,
		Fruits:     DefaultFruitsDaily,
		Dairy:      DefaultDairyDaily,
		Grains:     DefaultGrainsDaily,
	}}
}

// Update перезаписывает переданные нормы, остальные остаются прежними
func (r *NutritionRecommendations) Update(values map[NutrientKind]int) {
	for kind, v := range values {
		r.Set(kind, v)
	}
}

// Daily возвращает дневную норму группы
func (r NutritionRecommendations) Daily(kind NutrientKind) int {
	return r.Get(kind)
}
