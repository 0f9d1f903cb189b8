package qibot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/qibot/pkg/logger"
	"github.com/tokmz/qibot/pkg/socketmode"
)

func newTestBot(t *testing.T, opts ...BotOption) *Bot {
	t.Helper()
	base := []BotOption{
		WithAppToken("xapp-test"),
		WithBotToken("xoxb-test"),
		WithLogger(logger.Nop()),
	}
	bot, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return bot
}

func TestNewMissingTokens(t *testing.T) {
	_, err := New(WithBotToken("xoxb-test"))
	assert.ErrorIs(t, err, ErrMissingAppToken)

	_, err = New(WithAppToken("xapp-test"))
	assert.ErrorIs(t, err, ErrMissingBotToken)
}

func TestNewDefaults(t *testing.T) {
	bot := newTestBot(t)

	assert.NotNil(t, bot.Router())
	assert.NotNil(t, bot.Chat())
	assert.False(t, bot.Running())
	assert.False(t, bot.Connected())
}

func TestBotDispatch(t *testing.T) {
	bot := newTestBot(t)

	var got *Context
	bot.Register(OnEvent("app_mention"), func(c *Context) error {
		got = c
		return nil
	})

	bot.dispatch(socketmode.Envelope{
		"type":        "events_api",
		"envelope_id": "env-9",
		"payload": map[string]any{
			"event": map[string]any{"type": "app_mention", "text": "@bot hi"},
		},
	})

	require.NotNil(t, got)
	assert.Equal(t, "env-9", got.EnvelopeID())
	assert.Equal(t, "@bot hi", got.Text())
}

func TestBotDispatchMiddlewareShortCircuit(t *testing.T) {
	bot := newTestBot(t)

	handled := false
	bot.Use(func(c *Context, next Next) error {
		// 短路：事件不进入路由器
		return nil
	})
	bot.Register(OnType("events_api"), func(c *Context) error {
		handled = true
		return nil
	})

	bot.dispatch(socketmode.Envelope{"type": "events_api"})
	assert.False(t, handled)
}

func TestBotDispatchNoHandler(t *testing.T) {
	bot := newTestBot(t)

	// 没有匹配处理器时静默忽略，不会 panic
	assert.NotPanics(t, func() {
		bot.dispatch(socketmode.Envelope{"type": "events_api"})
	})
}

func TestBotSocketModeOptions(t *testing.T) {
	bot := newTestBot(t, WithSocketModeOptions(
		socketmode.WithConnectRetries(2),
	))
	assert.NotNil(t, bot.supervisor)
}
