package telegram

import (
	"context"
	"fmt"
	"strings"

	app "diary-bot/internal/application"
	"diary-bot/internal/container"
	"diary-bot/internal/domain/port"
)

// commandRouter направляет команды бота в сервисы приложения
type commandRouter struct {
	app      *container.Container
	notifier port.Notifier
}

func newCommandRouter(c *container.Container, notifier port.Notifier) *commandRouter {
	return &commandRouter{app: c, notifier: notifier}
}

// route выполняет команду без ведущего "/" с аргументами args
func (r *commandRouter) route(ctx context.Context, userID, chatID int64, command, args string) (*app.Reply, error) {
	args = strings.TrimSpace(args)

	switch command {
	case "start":
		if err := r.resetSession(ctx, userID, chatID); err != nil {
			return nil, err
		}
		return &app.Reply{Text: msgStart, Keyboard: app.MainKeyboard}, nil

	case "help":
		return &app.Reply{Text: msgHelp}, nil

	case "add":
		return r.app.Dialog.StartEntry(ctx, userID, chatID)

	case "done":
		return r.app.Dialog.Done(ctx, userID, chatID)

	case "view":
		return r.app.ReportService.View(ctx, userID, args)

	case "stats":
		return r.app.StatsService.Report(ctx, userID)

	case "set_norms":
		return r.app.Dialog.StartNorms(ctx, userID, chatID)

	case "reminders":
		if strings.EqualFold(args, "off") {
			return r.app.ReminderService.Disable(chatID), nil
		}
		return r.app.ReminderService.Enable(chatID, r.notifier), nil

	case "cancel":
		return r.app.Dialog.Cancel(ctx, userID, chatID)

	default:
		return &app.Reply{Text: msgUnknownCommand}, nil
	}
}

func (r *commandRouter) resetSession(ctx context.Context, userID, chatID int64) error {
	session, err := r.app.SessionService.Get(ctx, userID, chatID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	return r.app.SessionService.Reset(ctx, session)
}
