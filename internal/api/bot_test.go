package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	app "diary-bot/internal/application"
)

func TestReplyKeyboard(t *testing.T) {
	keyboard := replyKeyboard(app.MainKeyboard)

	require.True(t, keyboard.ResizeKeyboard)
	require.Len(t, keyboard.Keyboard, 3)
	require.Equal(t, "/add", keyboard.Keyboard[0][0].Text)
	require.Equal(t, "/cancel", keyboard.Keyboard[2][1].Text)
}
