package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Moscow фиксированный часовой пояс дневника (UTC+3), не зависит от локали пользователя
var Moscow = time.FixedZone("MSK", 3*60*60)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrNoEntries за выбранный период записей нет
var ErrNoEntries = errors.New("no diary entries")

// ErrUnknownMeal приём пищи не входит в список MealSlots
var ErrUnknownMeal = errors.New("unknown meal slot")

// MealSlots фиксированный список приёмов пищи
var MealSlots = []string{
	"Завтрак",
	"Утренний перекус",
	"Обед",
	"Обеденный перекус",
	"Полдник",
	"Ужин",
}

// IsMealSlot проверяет, что label входит в MealSlots
func IsMealSlot(label string) bool {
	for _, slot := range MealSlots {
		if slot == label {
			return true
		}
	}
	return false
}

// ParseMealSlot возвращает приём пищи по подписи кнопки, ErrUnknownMeal если такого нет
func ParseMealSlot(label string) (string, error) {
	label = strings.TrimSpace(label)
	if !IsMealSlot(label) {
		return "", fmt.Errorf("%w: %q", ErrUnknownMeal, label)
	}
	return label, nil
}

// DiaryEntry одна запись дневника о приёме пищи
type DiaryEntry struct {
	ID         int64
	UserID     int64
	Date       string // YYYY-MM-DD в поясе Moscow
	MealTime   string
	Portions   Portions
	ImagePaths []string
	Timestamp  time.Time
}

// NewDiaryEntry собирает запись, дата и время приводятся к поясу Moscow
func NewDiaryEntry(userID int64, mealTime string, portions Portions, imagePaths []string, now time.Time) *DiaryEntry {
	local := now.In(Moscow)
	paths := make([]string, len(imagePaths))
	copy(paths, imagePaths)
	return &DiaryEntry{
		UserID:     userID,
		Date:       local.Format(DateLayout),
		MealTime:   mealTime,
		Portions:   portions,
		ImagePaths: paths,
		Timestamp:  local,
	}
}

// LocalClock время записи в формате ЧЧ:ММ по Москве
func (e DiaryEntry) LocalClock() string {
	return e.Timestamp.In(Moscow).Format(ClockLayout)
}

// DateIn возвращает дату t в поясе Moscow
func DateIn(t time.Time) string {
	return t.In(Moscow).Format(DateLayout)
}

// SumPortions суммирует порции по всем записям
func SumPortions(entries []DiaryEntry) Portions {
	var total Portions
	for _, e := range entries {
		total = total.Add(e.Portions)
	}
	return total
}
