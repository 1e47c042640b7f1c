package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

const (
	evMealChosen       = "meal_chosen"
	evPhotosDone       = "photos_done"
	evNutrientAccepted = "nutrient_accepted"
	evCancel           = "cancel"
)

const doneSignal = "/done"

// entryEvents переходы диалога добавления записи. Следующая группа берётся
// из entity.NutrientOrder, после последней запись сохраняется.
var entryEvents = func() fsm.Events {
	events := fsm.Events{
		{Name: evMealChosen, Src: []string{string(entity.EntryChooseMeal)}, Dst: string(entity.EntryUploadPhoto)},
		{Name: evPhotosDone, Src: []string{string(entity.EntryUploadPhoto)}, Dst: string(entity.EntryStateFor(entity.NutrientOrder[0]))},
	}

	active := []string{string(entity.EntryChooseMeal), string(entity.EntryUploadPhoto)}
	for _, kind := range entity.NutrientOrder {
		src := string(entity.EntryStateFor(kind))
		dst := string(entity.EntrySaved)
		if next, ok := kind.Next(); ok {
			dst = string(entity.EntryStateFor(next))
		}
		events = append(events, fsm.EventDesc{Name: evNutrientAccepted, Src: []string{src}, Dst: dst})
		active = append(active, src)
	}

	return append(events, fsm.EventDesc{Name: evCancel, Src: active, Dst: string(entity.EntryCancelled)})
}()

// EntryFlow ведёт пользователя по шагам добавления записи:
// приём пищи -> фото -> шесть пищевых групп -> сохранение.
type EntryFlow struct {
	sessions  *SessionService
	entries   port.EntryRepository
	photos    port.PhotoStorage
	processor port.PhotoProcessor
	limits    entity.Limits
	now       func() time.Time
}

// NewEntryFlow создаёт диалог добавления записи
func NewEntryFlow(sessions *SessionService, entries port.EntryRepository, photos port.PhotoStorage, processor port.PhotoProcessor, limits entity.Limits) *EntryFlow {
	return &EntryFlow{
		sessions:  sessions,
		entries:   entries,
		photos:    photos,
		processor: processor,
		limits:    limits,
		now:       time.Now,
	}
}

// Start начинает диалог заново, даже если предыдущий не был завершён
func (f *EntryFlow) Start(ctx context.Context, userID, chatID int64) (*Reply, error) {
	if _, err := f.sessions.BeginEntry(ctx, userID, chatID); err != nil {
		return nil, fmt.Errorf("begin entry: %w", err)
	}
	slog.Info("entry flow started", "user_id", userID, "chat_id", chatID)
	return &Reply{Text: msgChooseMeal, Keyboard: mealKeyboard()}, nil
}

// HandleText обрабатывает текстовый ввод на текущем шаге
func (f *EntryFlow) HandleText(ctx context.Context, session *entity.Session, text string) (*Reply, error) {
	draft := session.Entry
	text = strings.TrimSpace(text)

	switch {
	case draft.State == entity.EntryChooseMeal:
		return f.chooseMeal(ctx, session, text)

	case draft.State == entity.EntryUploadPhoto:
		if strings.EqualFold(text, doneSignal) {
			return f.Done(ctx, session)
		}
		return &Reply{Text: msgPhotoOrDone}, nil
	}

	kind, ok := draft.State.Nutrient()
	if !ok {
		return nil, fmt.Errorf("entry flow: unexpected state %q", draft.State)
	}
	return f.enterNutrient(ctx, session, kind, text)
}

// HandlePhoto принимает фото на шаге загрузки. На других шагах фото
// считается неверным вводом: шаг повторяется без перехода.
func (f *EntryFlow) HandlePhoto(ctx context.Context, session *entity.Session, fetch func(context.Context) ([]byte, error)) (*Reply, error) {
	draft := session.Entry
	if draft.State != entity.EntryUploadPhoto {
		return f.reprompt(draft), nil
	}

	data, err := fetch(ctx)
	if err != nil {
		slog.Error("photo download failed", "user_id", session.UserID, "err", err)
		return &Reply{Text: msgPhotoFetchErr}, nil
	}

	data, err = f.processor.Normalize(ctx, data)
	if err != nil {
		slog.Error("photo normalize failed", "user_id", session.UserID, "err", err)
		return &Reply{Text: msgPhotoFetchErr}, nil
	}

	key := f.photoKey(session.UserID)
	if err := f.photos.Save(ctx, key, data); err != nil {
		slog.Error("photo save failed", "user_id", session.UserID, "key", key, "err", err)
		return &Reply{Text: msgPhotoSaveErr}, nil
	}

	draft.ImagePaths = append(draft.ImagePaths, key)
	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	slog.Info("photo saved", "user_id", session.UserID, "key", key, "count", len(draft.ImagePaths))
	return &Reply{Text: msgPhotoSaved}, nil
}

// Done завершает загрузку фото и переходит к вводу первой группы
func (f *EntryFlow) Done(ctx context.Context, session *entity.Session) (*Reply, error) {
	draft := session.Entry
	if draft.State != entity.EntryUploadPhoto {
		return f.HandleText(ctx, session, doneSignal)
	}

	if err := advanceEntry(ctx, draft, evPhotosDone); err != nil {
		return nil, err
	}
	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return f.reprompt(draft), nil
}

// Cancel прерывает диалог без сохранения
func (f *EntryFlow) Cancel(ctx context.Context, session *entity.Session) (*Reply, error) {
	if err := advanceEntry(ctx, session.Entry, evCancel); err != nil {
		return nil, err
	}
	if err := f.sessions.Reset(ctx, session); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	slog.Info("entry flow cancelled", "user_id", session.UserID)
	return &Reply{Text: msgEntryCancel, Keyboard: MainKeyboard}, nil
}

func (f *EntryFlow) chooseMeal(ctx context.Context, session *entity.Session, text string) (*Reply, error) {
	meal, err := entity.ParseMealSlot(text)
	if err != nil {
		slog.Warn("invalid meal slot", "user_id", session.UserID, "err", err)
		return &Reply{Text: msgInvalidMeal, Keyboard: mealKeyboard()}, nil
	}

	draft := session.Entry
	draft.MealTime = meal
	if err := advanceEntry(ctx, draft, evMealChosen); err != nil {
		return nil, err
	}
	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	slog.Info("meal chosen", "user_id", session.UserID, "meal", meal)
	return &Reply{Text: msgSendPhoto, RemoveKeyboard: true}, nil
}

func (f *EntryFlow) enterNutrient(ctx context.Context, session *entity.Session, kind entity.NutrientKind, text string) (*Reply, error) {
	value, err := f.limits.Validate(text, kind)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			return &Reply{Text: verr.UserMessage()}, nil
		}
		return nil, err
	}

	draft := session.Entry
	draft.Values[kind] = value

	if _, hasNext := kind.Next(); !hasNext {
		return f.save(ctx, session)
	}

	if err := advanceEntry(ctx, draft, evNutrientAccepted); err != nil {
		return nil, err
	}
	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return f.reprompt(draft), nil
}

// save записывает запись в хранилище. При ошибке шаг не меняется,
// пользователь может повторить ввод последнего значения.
func (f *EntryFlow) save(ctx context.Context, session *entity.Session) (*Reply, error) {
	draft := session.Entry
	entry := entity.NewDiaryEntry(session.UserID, draft.MealTime, entity.PortionsFromMap(draft.Values), draft.ImagePaths, f.now())

	id, err := f.entries.AddEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	if err := advanceEntry(ctx, draft, evNutrientAccepted); err != nil {
		return nil, err
	}
	if err := f.sessions.Reset(ctx, session); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}

	slog.Info("entry saved", "user_id", session.UserID, "entry_id", id, "photos", len(entry.ImagePaths))
	return &Reply{Text: fmt.Sprintf(msgEntryAdded, entry.MealTime), Keyboard: MainKeyboard}, nil
}

// reprompt повторяет вопрос текущего шага
func (f *EntryFlow) reprompt(draft *entity.EntryDraft) *Reply {
	switch draft.State {
	case entity.EntryChooseMeal:
		return &Reply{Text: msgInvalidMeal, Keyboard: mealKeyboard()}
	case entity.EntryUploadPhoto:
		return &Reply{Text: msgPhotoOrDone}
	}
	kind, _ := draft.State.Nutrient()
	return &Reply{Text: fmt.Sprintf(msgEnterAmount, kind.Genitive())}
}

func (f *EntryFlow) photoKey(userID int64) string {
	stamp := f.now().In(entity.Moscow).Format("20060102150405")
	return fmt.Sprintf("%d_%s_%s.jpg", userID, stamp, uuid.NewString()[:8])
}

func advanceEntry(ctx context.Context, draft *entity.EntryDraft, event string) error {
	machine := fsm.NewFSM(string(draft.State), entryEvents, nil)
	if err := machine.Event(ctx, event); err != nil {
		return fmt.Errorf("entry flow %s from %s: %w", event, draft.State, err)
	}
	draft.State = entity.EntryState(machine.Current())
	return nil
}
