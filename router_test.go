package qibot

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/qibot/pkg/logger"
	"github.com/tokmz/qibot/pkg/socketmode"
)

// eventContext 构造一个 events_api 上下文
func eventContext(eventType, text string) *Context {
	envelope := socketmode.Envelope{
		"type":        "events_api",
		"envelope_id": "env-1",
		"payload": map[string]any{
			"event": map[string]any{
				"type":    eventType,
				"text":    text,
				"channel": "C123",
				"user":    "U456",
			},
		},
	}
	return newContext(context.Background(), envelope, logger.Nop(), nil)
}

func TestOnType(t *testing.T) {
	c := eventContext("message", "hi")
	assert.True(t, OnType("events_api")(c))
	assert.False(t, OnType("slash_commands")(c))
}

func TestOnEvent(t *testing.T) {
	c := eventContext("app_mention", "hello bot")
	assert.True(t, OnEvent("app_mention")(c))
	assert.False(t, OnEvent("message")(c))
}

func TestOnMessage(t *testing.T) {
	re := regexp.MustCompile(`^deploy\b`)

	assert.True(t, OnMessage(re)(eventContext("message", "deploy prod")))
	assert.False(t, OnMessage(re)(eventContext("message", "do not deploy")))
	// 非 message 事件不匹配
	assert.False(t, OnMessage(re)(eventContext("app_mention", "deploy prod")))
}

func TestRouterDispatchFirstMatch(t *testing.T) {
	r := NewRouter()

	var hit []string
	r.Register(OnEvent("message"), func(c *Context) error {
		hit = append(hit, "first")
		return nil
	})
	r.Register(OnType("events_api"), func(c *Context) error {
		hit = append(hit, "second")
		return nil
	})

	require.NoError(t, r.Dispatch(eventContext("message", "hi")))

	// 按注册顺序取第一个匹配
	assert.Equal(t, []string{"first"}, hit)
}

func TestRouterDispatchNoHandler(t *testing.T) {
	r := NewRouter()
	r.Register(OnEvent("app_mention"), func(c *Context) error { return nil })

	err := r.Dispatch(eventContext("message", "hi"))
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestRouterDispatchHandlerError(t *testing.T) {
	r := NewRouter()
	r.Register(OnEvent("message"), func(c *Context) error { return assert.AnError })

	assert.ErrorIs(t, r.Dispatch(eventContext("message", "hi")), assert.AnError)
}
