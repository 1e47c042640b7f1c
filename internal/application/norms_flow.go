package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/looplab/fsm"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

const evNormAccepted = "norm_accepted"

var normsEvents = func() fsm.Events {
	var events fsm.Events
	var active []string
	for _, kind := range entity.NutrientOrder {
		src := string(entity.NormsStateFor(kind))
		dst := string(entity.NormsSaved)
		if next, ok := kind.Next(); ok {
			dst = string(entity.NormsStateFor(next))
		}
		events = append(events, fsm.EventDesc{Name: evNormAccepted, Src: []string{src}, Dst: dst})
		active = append(active, src)
	}
	return append(events, fsm.EventDesc{Name: evCancel, Src: active, Dst: string(entity.NormsCancelled)})
}()

// NormsFlow диалог установки дневных норм. Нормы сохраняются в хранилище,
// а не в сессии, поэтому переживают перезапуск бота.
type NormsFlow struct {
	sessions *SessionService
	norms    port.NormsRepository
	limits   entity.Limits
}

func NewNormsFlow(sessions *SessionService, norms port.NormsRepository, limits entity.Limits) *NormsFlow {
	return &NormsFlow{sessions: sessions, norms: norms, limits: limits}
}

func (f *NormsFlow) Start(ctx context.Context, userID, chatID int64) (*Reply, error) {
	if _, err := f.sessions.BeginNorms(ctx, userID, chatID); err != nil {
		return nil, fmt.Errorf("begin norms: %w", err)
	}
	slog.Info("norms flow started", "user_id", userID, "chat_id", chatID)
	first := entity.NutrientOrder[0]
	return &Reply{Text: fmt.Sprintf(msgNormsStart, first.Genitive()), Markdown: true, RemoveKeyboard: true}, nil
}

func (f *NormsFlow) HandleText(ctx context.Context, session *entity.Session, text string) (*Reply, error) {
	draft := session.Norms
	kind, ok := draft.State.Nutrient()
	if !ok {
		return nil, fmt.Errorf("norms flow: unexpected state %q", draft.State)
	}

	value, err := f.limits.Validate(strings.TrimSpace(text), kind)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			return &Reply{Text: verr.UserMessage()}, nil
		}
		return nil, err
	}
	draft.Values[kind] = value

	if _, hasNext := kind.Next(); !hasNext {
		return f.save(ctx, session)
	}

	if err := advanceNorms(ctx, draft, evNormAccepted); err != nil {
		return nil, err
	}
	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	next, _ := draft.State.Nutrient()
	return &Reply{Text: fmt.Sprintf(msgNormsNext, next.Genitive()), Markdown: true}, nil
}

func (f *NormsFlow) Cancel(ctx context.Context, session *entity.Session) (*Reply, error) {
	if err := advanceNorms(ctx, session.Norms, evCancel); err != nil {
		return nil, err
	}
	if err := f.sessions.Reset(ctx, session); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	return &Reply{Text: msgNormsCancelled, Keyboard: MainKeyboard}, nil
}

func (f *NormsFlow) save(ctx context.Context, session *entity.Session) (*Reply, error) {
	draft := session.Norms
	norms := entity.DefaultRecommendations()
	norms.Update(draft.Values)

	if err := f.norms.SaveNorms(ctx, session.UserID, norms); err != nil {
		return nil, fmt.Errorf("save norms: %w", err)
	}
	if err := advanceNorms(ctx, draft, evNormAccepted); err != nil {
		return nil, err
	}
	if err := f.sessions.Reset(ctx, session); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}

	slog.Info("norms saved", "user_id", session.UserID)
	return &Reply{Text: msgNormsSaved, Keyboard: MainKeyboard}, nil
}

func advanceNorms(ctx context.Context, draft *entity.NormsDraft, event string) error {
	machine := fsm.NewFSM(string(draft.State), normsEvents, nil)
	if err := machine.Event(ctx, event); err != nil {
		return fmt.Errorf("norms flow %s from %s: %w", event, draft.State, err)
	}
	draft.State = entity.NormsState(machine.Current())
	return nil
}
