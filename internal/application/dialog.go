package app

import (
	"context"
	"fmt"
)

// Dialog направляет входящие события в активный диалог пользователя
type Dialog struct {
	sessions *SessionService
	entry    *EntryFlow
	norms    *NormsFlow
}

func NewDialog(sessions *SessionService, entry *EntryFlow, norms *NormsFlow) *Dialog {
	return &Dialog{sessions: sessions, entry: entry, norms: norms}
}

func (d *Dialog) StartEntry(ctx context.Context, userID, chatID int64) (*Reply, error) {
	return d.entry.Start(ctx, userID, chatID)
}

func (d *Dialog) StartNorms(ctx context.Context, userID, chatID int64) (*Reply, error) {
	return d.norms.Start(ctx, userID, chatID)
}

// Text передаёт текст активному диалогу
func (d *Dialog) Text(ctx context.Context, userID, chatID int64, text string) (*Reply, error) {
	session, err := d.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch {
	case session.Entry != nil:
		return d.entry.HandleText(ctx, session, text)
	case session.Norms != nil:
		return d.norms.HandleText(ctx, session, text)
	}
	return &Reply{Text: msgNoActiveFlow, Keyboard: MainKeyboard}, nil
}

// Photo передаёт фото диалогу добавления записи. fetch вызывается только
// если фото действительно ожидается.
func (d *Dialog) Photo(ctx context.Context, userID, chatID int64, fetch func(context.Context) ([]byte, error)) (*Reply, error) {
	session, err := d.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch {
	case session.Entry != nil:
		return d.entry.HandlePhoto(ctx, session, fetch)
	case session.Norms != nil:
		return d.norms.HandleText(ctx, session, "")
	}
	return &Reply{Text: msgPhotoNoFlow}, nil
}

// Done сигнал окончания загрузки фото
func (d *Dialog) Done(ctx context.Context, userID, chatID int64) (*Reply, error) {
	session, err := d.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch {
	case session.Entry != nil:
		return d.entry.Done(ctx, session)
	case session.Norms != nil:
		return d.norms.HandleText(ctx, session, doneSignal)
	}
	return &Reply{Text: msgNoActiveFlow, Keyboard: MainKeyboard}, nil
}

// Cancel прерывает любой активный диалог
func (d *Dialog) Cancel(ctx context.Context, userID, chatID int64) (*Reply, error) {
	session, err := d.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch {
	case session.Entry != nil:
		return d.entry.Cancel(ctx, session)
	case session.Norms != nil:
		return d.norms.Cancel(ctx, session)
	}
	return &Reply{Text: msgNothingToCancel, Keyboard: MainKeyboard}, nil
}
