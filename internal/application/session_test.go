package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/infrastructure/storage"
)

func TestSessionService_BeginEntryAndReset(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	session, err := svc.BeginEntry(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, session.Entry)
	require.Equal(t, entity.EntryChooseMeal, session.Entry.State)

	require.NoError(t, svc.Reset(ctx, session))
	require.False(t, session.Active())

	session, err = svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, session.Active())
}

func TestSessionService_BeginNormsReplacesEntry(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	_, err := svc.BeginEntry(ctx, 2, 20)
	require.NoError(t, err)

	session, err := svc.BeginNorms(ctx, 2, 20)
	require.NoError(t, err)
	require.Nil(t, session.Entry)
	require.NotNil(t, session.Norms)
	require.Equal(t, entity.NormsSetProtein, session.Norms.State)
}

func TestSessionService_SessionsAreScopedByChat(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	_, err := svc.BeginEntry(ctx, 3, 30)
	require.NoError(t, err)

	other, err := svc.Get(ctx, 3, 31)
	require.NoError(t, err)
	require.False(t, other.Active())
}
