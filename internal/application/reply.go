package app

import "diary-bot/internal/domain/entity"

// Reply ответ пользователю, который транспорт превращает в сообщение
type Reply struct {
	Text           string
	Markdown       bool
	Keyboard       [][]string // подсказки-кнопки, nil если клавиатура не меняется
	RemoveKeyboard bool
	Document       string // путь к файлу, который нужно отправить документом
}

const (
	msgChooseMeal    = "Выберите приём пищи:"
	msgInvalidMeal   = "Пожалуйста, выберите приём пищи из предложенных вариантов."
	msgSendPhoto     = "📷 Отправьте фотографии блюда. Когда закончите, введите /done."
	msgPhotoSaved    = "📷 Фотография сохранена. Вы можете отправить ещё фотографию или введите /done, чтобы продолжить."
	msgPhotoOrDone   = "Пожалуйста, отправьте фотографию или введите /done, чтобы продолжить."
	msgPhotoFetchErr = "Произошла ошибка при получении фотографии. Попробуйте снова."
	msgPhotoSaveErr  = "Произошла ошибка при сохранении фотографии. Попробуйте снова."
	msgEnterAmount   = "Введите количество %s (в порциях):"
	msgEntryAdded    = "✅ Запись о приёме пищи «%s» добавлена!"
	msgEntryCancel   = "Добавление записи отменено."

	msgNormsStart     = "⚙️ Вы собираетесь установить свои ежедневные нормы потребления пищевых групп.\nЭто поможет давать более точные рекомендации.\n\nВведите вашу ежедневную норму *%s* (в порциях):"
	msgNormsNext      = "Введите вашу ежедневную норму *%s* (в порциях):"
	msgNormsSaved     = "✅ Ваши ежедневные нормы успешно сохранены!"
	msgNormsCancelled = "Установка норм отменена."

	msgNothingToCancel = "Нечего отменять. Чтобы добавить запись, используйте /add."
	msgNoActiveFlow    = "Используйте /add, чтобы добавить запись, или /start для списка команд."
	msgPhotoNoFlow     = "Чтобы прикрепить фото, начните запись командой /add."
)

// MainKeyboard основное меню команд
var MainKeyboard = [][]string{
	{"/add", "/view"},
	{"/stats", "/set_norms"},
	{"/reminders", "/cancel"},
}

// mealKeyboard раскладывает приёмы пищи по две кнопки в ряд
func mealKeyboard() [][]string {
	var rows [][]string
	for i := 0; i < len(entity.MealSlots); i += 2 {
		end := i + 2
		if end > len(entity.MealSlots) {
			end = len(entity.MealSlots)
		}
		row := make([]string, end-i)
		copy(row, entity.MealSlots[i:end])
		rows = append(rows, row)
	}
	return rows
}
