package port

// Scheduler интерфейс планировщика ежедневных напоминаний
type Scheduler interface {
	// ScheduleDaily регистрирует job на каждое время из times (ЧЧ:ММ) для чата
	ScheduleDaily(chatID int64, times []string, job func()) error

	// Unschedule снимает все задания чата; повторный вызов ничего не делает
	Unschedule(chatID int64)
}

// Notifier отправляет исходящие сообщения в чат
type Notifier interface {
	SendText(chatID int64, text string) error
}
