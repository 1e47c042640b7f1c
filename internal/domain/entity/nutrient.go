package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NutrientKind пищевая группа, которая учитывается в дневнике
type NutrientKind string

const (
	Protein    NutrientKind = "protein"
	Vegetables NutrientKind = "vegetables"
	Fats       NutrientKind = "fats"
	Fruits     NutrientKind = "fruits"
	Dairy      NutrientKind = "dairy"
	Grains     NutrientKind = "grains"
)

// NutrientOrder задаёт порядок, в котором пищевые группы запрашиваются у пользователя
var NutrientOrder = []NutrientKind{Protein, Vegetables, Fats, Fruits, Dairy, Grains}

var nutrientTitles = map[NutrientKind]string{
	Protein:    "Белки",
	Vegetables: "Овощи",
	Fats:       "Жиры",
	Fruits:     "Фрукты",
	Dairy:      "Молочные продукты",
	Grains:     "Злаки",
}

var nutrientGenitive = map[NutrientKind]string{
	Protein:    "Белков",
	Vegetables: "Овощей",
	Fats:       "Жиров",
	Fruits:     "Фруктов",
	Dairy:      "Молочных продуктов",
	Grains:     "Злаков",
}

// Title возвращает название группы для отчётов и статистики
func (k NutrientKind) Title() string {
	return nutrientTitles[k]
}

// Genitive возвращает название группы в родительном падеже ("введите количество Белков")
func (k NutrientKind) Genitive() string {
	return nutrientGenitive[k]
}

// Index возвращает позицию группы в NutrientOrder или -1
func (k NutrientKind) Index() int {
	for i, kind := range NutrientOrder {
		if kind == k {
			return i
		}
	}
	return -1
}

// Next возвращает следующую группу. Для последней группы ok == false.
func (k NutrientKind) Next() (next NutrientKind, ok bool) {
	i := k.Index()
	if i < 0 || i+1 >= len(NutrientOrder) {
		return "", false
	}
	return NutrientOrder[i+1], true
}

// Bounds допустимый диапазон порций [Min, Max]
type Bounds struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Limits границы по каждой пищевой группе
type Limits map[NutrientKind]Bounds

const (
	defaultPortionMax = 20
	defaultNormMax    = 50
)

// DefaultLimits границы для количества порций в одном приёме пищи
func DefaultLimits() Limits {
	return uniformLimits(0, defaultPortionMax)
}

// DefaultNormLimits границы для дневных норм
func DefaultNormLimits() Limits {
	return uniformLimits(0, defaultNormMax)
}

func uniformLimits(min, max int) Limits {
	l := make(Limits, len(NutrientOrder))
	for _, kind := range NutrientOrder {
		l[kind] = Bounds{Min: min, Max: max}
	}
	return l
}

// Merge накладывает override поверх l и возвращает новую карту
func (l Limits) Merge(override Limits) Limits {
	out := make(Limits, len(l))
	for kind, b := range l {
		out[kind] = b
	}
	for kind, b := range override {
		if kind.Index() < 0 {
			continue
		}
		out[kind] = b
	}
	return out
}

// Bounds возвращает диапазон для группы
func (l Limits) Bounds(kind NutrientKind) Bounds {
	if b, ok := l[kind]; ok {
		return b
	}
	return Bounds{Min: 0, Max: defaultPortionMax}
}

// Validate разбирает ввод пользователя и проверяет попадание в диапазон группы.
// Функция чистая: побочных эффектов нет.
func (l Limits) Validate(raw string, kind NutrientKind) (int, error) {
	b := l.Bounds(kind)
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		// целое число, не помещающееся в int, заведомо вне диапазона
		return 0, &ValidationError{Kind: kind, Reason: ReasonOutOfRange, Min: b.Min, Max: b.Max}
	}
	if err != nil {
		return 0, &ValidationError{Kind: kind, Reason: ReasonNotANumber}
	}

	if value < b.Min || value > b.Max {
		return 0, &ValidationError{Kind: kind, Reason: ReasonOutOfRange, Min: b.Min, Max: b.Max}
	}
	return value, nil
}

// ValidationReason причина отказа валидатора
type ValidationReason string

const (
	ReasonNotANumber ValidationReason = "not_a_number"
	ReasonOutOfRange ValidationReason = "out_of_range"
)

// ValidationError ошибка ввода количества порций
type ValidationError struct {
	Kind   NutrientKind
	Reason ValidationReason
	Min    int
	Max    int
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonOutOfRange {
		return fmt.Sprintf("%s: value out of range [%d, %d]", e.Kind, e.Min, e.Max)
	}
	return fmt.Sprintf("%s: not a number", e.Kind)
}

// UserMessage текст для повторного запроса значения
func (e *ValidationError) UserMessage() string {
	if e.Reason == ReasonOutOfRange {
		return fmt.Sprintf("Значение должно быть между %d и %d порций для %s (порций):", e.Min, e.Max, e.Kind.Genitive())
	}
	return fmt.Sprintf("Пожалуйста, введите целое число для %s (порций):", e.Kind.Genitive())
}

// Portions количество порций по каждой пищевой группе
type Portions struct {
	Protein    int `json:"protein"`
	Vegetables int `json:"vegetables"`
	Fats       int `json:"fats"`
	Fruits     int `json:"fruits"`
	Dairy      int `json:"dairy"`
	Grains     int `json:"grains"`
}

// Get возвращает значение группы
func (p Portions) Get(kind NutrientKind) int {
	switch kind {
	case Protein:
		return p.Protein
	case Vegetables:
		return p.Vegetables
	case Fats:
		return p.Fats
	case Fruits:
		return p.Fruits
	case Dairy:
		return p.Dairy
	case Grains:
		return p.Grains
	}
	return 0
}

// Set записывает значение группы. Неизвестные группы игнорируются.
func (p *Portions) Set(kind NutrientKind, value int) {
	switch kind {
	case Protein:
		p.Protein = value
	case Vegetables:
		p.Vegetables = value
	case Fats:
		p.Fats = value
	case Fruits:
		p.Fruits = value
	case Dairy:
		p.Dairy = value
	case Grains:
		p.Grains = value
	}
}

// Add складывает порции покомпонентно
func (p Portions) Add(other Portions) Portions {
	for _, kind := range NutrientOrder {
		p.Set(kind, p.Get(kind)+other.Get(kind))
	}
	return p
}

// PortionsFromMap собирает порции из частично заполненной карты, отсутствующие группы равны 0
func PortionsFromMap(values map[NutrientKind]int) Portions {
	var p Portions
	for kind, v := range values {
		p.Set(kind, v)
	}
	return p
}
