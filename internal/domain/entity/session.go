package entity

// EntryState шаг диалога добавления записи
type EntryState string

const (
	EntryChooseMeal      EntryState = "choose_meal"      // Выбор приёма пищи
	EntryUploadPhoto     EntryState = "upload_photo"     // Загрузка фотографий
	EntryEnterProtein    EntryState = "enter_protein"    // Ввод белков
	EntryEnterVegetables EntryState = "enter_vegetables" // Ввод овощей
	EntryEnterFats       EntryState = "enter_fats"       // Ввод жиров
	EntryEnterFruits     EntryState = "enter_fruits"     // Ввод фруктов
	EntryEnterDairy      EntryState = "enter_dairy"      // Ввод молочных продуктов
	EntryEnterGrains     EntryState = "enter_grains"     // Ввод злаков
	EntrySaved           EntryState = "saved"            // Запись сохранена
	EntryCancelled       EntryState = "cancelled"        // Диалог отменён
)

var entryNutrientStates = map[NutrientKind]EntryState{
	Protein:    EntryEnterProtein,
	Vegetables: EntryEnterVegetables,
	Fats:       EntryEnterFats,
	Fruits:     EntryEnterFruits,
	Dairy:      EntryEnterDairy,
	Grains:     EntryEnterGrains,
}

// EntryStateFor возвращает шаг ввода группы kind
func EntryStateFor(kind NutrientKind) EntryState {
	return entryNutrientStates[kind]
}

// Nutrient возвращает группу, которую вводят на этом шаге
func (s EntryState) Nutrient() (NutrientKind, bool) {
	for kind, state := range entryNutrientStates {
		if state == s {
			return kind, true
		}
	}
	return "", false
}

// Terminal сообщает, что диалог завершён
func (s EntryState) Terminal() bool {
	return s == EntrySaved || s == EntryCancelled
}

// NormsState шаг диалога установки норм
type NormsState string

const (
	NormsSetProtein    NormsState = "set_protein"
	NormsSetVegetables NormsState = "set_vegetables"
	NormsSetFats       NormsState = "set_fats"
	NormsSetFruits     NormsState = "set_fruits"
	NormsSetDairy      NormsState = "set_dairy"
	NormsSetGrains     NormsState = "set_grains"
	NormsSaved         NormsState = "saved"
	NormsCancelled     NormsState = "cancelled"
)

var normsNutrientStates = map[NutrientKind]NormsState{
	Protein:    NormsSetProtein,
	Vegetables: NormsSetVegetables,
	Fats:       NormsSetFats,
	Fruits:     NormsSetFruits,
	Dairy:      NormsSetDairy,
	Grains:     NormsSetGrains,
}

// NormsStateFor возвращает шаг ввода нормы группы kind
func NormsStateFor(kind NutrientKind) NormsState {
	return normsNutrientStates[kind]
}

// Nutrient возвращает группу, норму которой вводят на этом шаге
func (s NormsState) Nutrient() (NutrientKind, bool) {
	for kind, state := range normsNutrientStates {
		if state == s {
			return kind, true
		}
	}
	return "", false
}

// Terminal сообщает, что диалог завершён
func (s NormsState) Terminal() bool {
	return s == NormsSaved || s == NormsCancelled
}

// EntryDraft незавершённая запись дневника
type EntryDraft struct {
	State      EntryState           `json:"state"`
	MealTime   string               `json:"meal_time,omitempty"`
	ImagePaths []string             `json:"image_paths,omitempty"`
	Values     map[NutrientKind]int `json:"values,omitempty"`
}

// NormsDraft незавершённый ввод норм
type NormsDraft struct {
	State  NormsState           `json:"state"`
	Values map[NutrientKind]int `json:"values,omitempty"`
}

// Session состояние диалога пользователя в конкретном чате.
// Одновременно активен не больше одного диалога.
type Session struct {
	UserID int64       `json:"user_id"` // Telegram User ID
	ChatID int64       `json:"chat_id"` // Telegram Chat ID
	Entry  *EntryDraft `json:"entry,omitempty"`
	Norms  *NormsDraft `json:"norms,omitempty"`
}

// NewSession создаёт пустую сессию без активного диалога
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
	}
}

// StartEntry начинает добавление записи заново, старый черновик отбрасывается
func (s *Session) StartEntry() *EntryDraft {
	s.Norms = nil
	s.Entry = &EntryDraft{
		State:  EntryChooseMeal,
		Values: make(map[NutrientKind]int),
	}
	return s.Entry
}

// StartNorms начинает ввод норм заново, старый черновик отбрасывается
func (s *Session) StartNorms() *NormsDraft {
	s.Entry = nil
	s.Norms = &NormsDraft{
		State:  NormsSetProtein,
		Values: make(map[NutrientKind]int),
	}
	return s.Norms
}

// Clear завершает любой активный диалог
func (s *Session) Clear() {
	s.Entry = nil
	s.Norms = nil
}

// Active сообщает, что есть незавершённый диалог
func (s *Session) Active() bool {
	return s.Entry != nil || s.Norms != nil
}
