package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "diary-bot/internal/application"
	"diary-bot/internal/container"
	"diary-bot/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот для ведения пищевого дневника.

Я помогу записывать приёмы пищи, считать порции по пищевым группам и подскажу, как сбалансировать рацион.

📋 Команды:
/add — добавить запись о приёме пищи
/view — отчёт за сегодня (или /view ГГГГ-ММ-ДД)
/stats — статистика за неделю
/set_norms — установить свои дневные нормы
/reminders — включить напоминания (/reminders off — выключить)
/cancel — отменить текущую операцию
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /add и выберите приём пищи
2️⃣ Пришлите одну или несколько фотографий блюда, затем /done
3️⃣ Введите количество порций для каждой пищевой группы

📄 /view присылает PDF-отчёт с таблицей, рекомендациями и фотографиями.
📊 /stats показывает суммы порций по дням за последнюю неделю.
⚙️ /set_norms задаёт дневные нормы, по которым строятся рекомендации.`

	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgError          = "⚠️ Произошла ошибка. Попробуйте ещё раз позже."
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *container.Container
	commands *commandRouter
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("authorized", "account", api.Self.UserName)

	b := &Bot{
		api: api,
		app: c,
	}
	b.commands = newCommandRouter(c, b)
	return b, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Сообщения обрабатываются по одному, в порядке поступления.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// SendText отправляет текстовое сообщение, используется напоминаниями
func (b *Bot) SendText(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var (
		reply *app.Reply
		err   error
	)
	switch {
	case msg.IsCommand():
		reply, err = b.handleCommand(ctx, msg)

	case len(msg.Photo) > 0:
		// Берём фото с максимальным разрешением
		photo := msg.Photo[len(msg.Photo)-1]
		reply, err = b.app.Dialog.Photo(ctx, userID, chatID, func(ctx context.Context) ([]byte, error) {
			return b.downloadFile(ctx, photo.FileID)
		})

	default:
		reply, err = b.app.Dialog.Text(ctx, userID, chatID, msg.Text)
	}

	if err != nil {
		slog.Error("handle message failed", "user_id", userID, "chat_id", chatID, "err", err)
		b.sendMessage(chatID, msgError)
		return
	}
	b.send(chatID, reply)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) (*app.Reply, error) {
	return b.commands.route(ctx, msg.From.ID, msg.Chat.ID, msg.Command(), msg.CommandArguments())
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// send превращает ответ приложения в сообщения Telegram
func (b *Bot) send(chatID int64, reply *app.Reply) {
	if reply == nil {
		return
	}

	if reply.Document != "" {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(reply.Document))
		doc.Caption = reply.Text
		if _, err := b.api.Send(doc); err != nil {
			slog.Error("send document failed", "chat_id", chatID, "path", reply.Document, "err", err)
			b.sendMessage(chatID, msgError)
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	switch {
	case reply.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	case len(reply.Keyboard) > 0:
		msg.ReplyMarkup = replyKeyboard(reply.Keyboard)
	}

	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send message failed", "chat_id", chatID, "err", err)
	}
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			line = append(line, tgbotapi.NewKeyboardButton(label))
		}
		buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(line...))
	}
	keyboard := tgbotapi.NewReplyKeyboard(buttons...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	if err := b.SendText(chatID, text); err != nil {
		slog.Error("send message failed", "chat_id", chatID, "err", err)
	}
}

var _ port.Notifier = (*Bot)(nil)
