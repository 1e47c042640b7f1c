package app

import (
	"fmt"
	"log/slog"
	"strings"

	"diary-bot/internal/domain/port"
)

const (
	msgReminder         = "🍽️ Пора записать свой приём пищи!"
	msgRemindersOn      = "⏰ Напоминания успешно настроены: %s."
	msgRemindersOff     = "🔕 Напоминания отключены."
	msgRemindersFailure = "Не удалось настроить напоминания. Попробуйте позже."
)

// ReminderService управляет ежедневными напоминаниями чата
type ReminderService struct {
	scheduler port.Scheduler
	times     []string
}

func NewReminderService(scheduler port.Scheduler, times []string) *ReminderService {
	return &ReminderService{scheduler: scheduler, times: times}
}

// Enable заново планирует напоминания, старые задания снимаются
func (s *ReminderService) Enable(chatID int64, notifier port.Notifier) *Reply {
	s.scheduler.Unschedule(chatID)

	err := s.scheduler.ScheduleDaily(chatID, s.times, func() {
		if err := notifier.SendText(chatID, msgReminder); err != nil {
			slog.Error("send reminder failed", "chat_id", chatID, "err", err)
		}
	})
	if err != nil {
		slog.Error("schedule reminders failed", "chat_id", chatID, "err", err)
		s.scheduler.Unschedule(chatID)
		return &Reply{Text: msgRemindersFailure}
	}

	slog.Info("reminders scheduled", "chat_id", chatID, "times", s.times)
	return &Reply{Text: fmt.Sprintf(msgRemindersOn, strings.Join(s.times, ", "))}
}

// Disable снимает напоминания чата
func (s *ReminderService) Disable(chatID int64) *Reply {
	s.scheduler.Unschedule(chatID)
	return &Reply{Text: msgRemindersOff}
}
