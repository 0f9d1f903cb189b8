package qibot

import (
	"context"

	"github.com/google/uuid"

	"github.com/tokmz/qibot/pkg/chat"
	"github.com/tokmz/qibot/pkg/logger"
	"github.com/tokmz/qibot/pkg/socketmode"
)

// Context 单个事件的处理上下文
// 每个入站信封对应一个 Context，贯穿中间件链和处理器
type Context struct {
	id       string
	ctx      context.Context
	envelope socketmode.Envelope
	log      logger.Logger
	chat     *chat.Client
	values   map[string]any
}

// newContext 创建事件上下文
func newContext(ctx context.Context, envelope socketmode.Envelope, log logger.Logger, chatClient *chat.Client) *Context {
	return &Context{
		id:       uuid.NewString(),
		ctx:      ctx,
		envelope: envelope,
		log:      log,
		chat:     chatClient,
	}
}

// ID 本次事件的唯一标识（进程内生成，用于日志关联）
func (c *Context) ID() string {
	return c.id
}

// Context 标准库上下文
func (c *Context) Context() context.Context {
	return c.ctx
}

// Logger 带事件标识的日志器
func (c *Context) Logger() logger.Logger {
	return c.log
}

// Envelope 完整的已解码信封
func (c *Context) Envelope() socketmode.Envelope {
	return c.envelope
}

// Type 信封类型（events_api / slash_commands 等）
func (c *Context) Type() string {
	return c.envelope.Type()
}

// EnvelopeID 信封标识
func (c *Context) EnvelopeID() string {
	return c.envelope.EnvelopeID()
}

// event 提取 payload.event 对象
func (c *Context) event() map[string]any {
	payload, _ := c.envelope["payload"].(map[string]any)
	if payload == nil {
		return nil
	}
	event, _ := payload["event"].(map[string]any)
	return event
}

// EventType 事件类型（message / app_mention 等），非事件信封返回空串
func (c *Context) EventType() string {
	t, _ := c.event()["type"].(string)
	return t
}

// Text 事件文本内容
func (c *Context) Text() string {
	text, _ := c.event()["text"].(string)
	return text
}

// Channel 事件所在频道
func (c *Context) Channel() string {
	ch, _ := c.event()["channel"].(string)
	return ch
}

// User 触发事件的用户
func (c *Context) User() string {
	u, _ := c.event()["user"].(string)
	return u
}

// Set 存入中间件传递值
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Get 读取中间件传递值
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Say 在事件所在频道回复消息
func (c *Context) Say(text string) error {
	return c.SayTo(c.Channel(), text)
}

// SayTo 向指定频道发送消息
func (c *Context) SayTo(channel, text string) error {
	if c.chat == nil {
		return chat.ErrMissingToken
	}
	_, err := c.chat.PostMessage(c.ctx, channel, text)
	return err
}
