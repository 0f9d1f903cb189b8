package socketmode

import (
	"bytes"
	"encoding/json"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"github.com/tokmz/qibot/pkg/logger"
)

// maxConsumerStack 消费者异常堆栈的最大记录长度
const maxConsumerStack = 4 << 10

// Envelope 一条已解码的入站数据
type Envelope map[string]any

// Type 信封类型（hello / disconnect / ping / events_api 等）
func (e Envelope) Type() string {
	t, _ := e["type"].(string)
	return t
}

// EnvelopeID 信封标识，非空时平台要求确认
func (e Envelope) EnvelopeID() string {
	id, _ := e["envelope_id"].(string)
	return id
}

// Consumer 信封消费者
type Consumer func(envelope Envelope)

// Conn 处理器向外写出所需的最小会话能力
type Conn interface {
	Send(data []byte) error
	SendPong(payload []byte) error
	Close()
	IsOpen() bool
}

// ackMessage 信封确认消息
type ackMessage struct {
	EnvelopeID string `json:"envelope_id"`
}

// pongMessage 应用层 pong 应答
type pongMessage struct {
	Type string       `json:"type"`
	Num  *json.Number `json:"num,omitempty"`
}

// Processor 信封处理器
// 对每个入站帧做分类：协议层 Ping、应用层控制消息、事件信封，
// 发出确认并把事件转发给注册的消费者
type Processor struct {
	log     logger.Logger
	metrics Metrics

	mu        sync.RWMutex
	consumers []Consumer
}

// NewProcessor 创建信封处理器
func NewProcessor(log logger.Logger, metrics Metrics) *Processor {
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	return &Processor{
		log:     log,
		metrics: metrics,
	}
}

// OnEvent 注册事件消费者，按注册顺序调用
func (p *Processor) OnEvent(fn Consumer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consumers = append(p.consumers, fn)
}

// Process 处理一个入站帧
func (p *Processor) Process(conn Conn, kind FrameKind, payload []byte) {
	p.metrics.IncrementFrames(string(kind))

	// 协议层 Ping：逐字节回送 Pong，不进入应用层
	if kind == FramePing {
		if err := conn.SendPong(payload); err != nil {
			p.log.Warn("pong 应答失败", zap.Error(err))
		}
		return
	}

	// 噪音过滤：空载荷或非 JSON 对象载荷直接忽略
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		p.metrics.IncrementDroppedFrames()
		return
	}

	var envelope Envelope
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&envelope); err != nil {
		p.metrics.IncrementDecodeErrors()
		p.log.Warn("信封解码失败，丢弃", zap.Error(err), zap.Int("size", len(payload)))
		return
	}

	switch envelope.Type() {
	case "hello":
		p.log.Info("连接就绪")

	case "disconnect":
		// 平台要求关闭当前连接（区别于进程停止），由 Supervisor 负责重连
		reason, _ := envelope["reason"].(string)
		p.log.Info("收到断开请求", zap.String("reason", reason))
		conn.Close()

	case "ping":
		p.handleAppPing(conn, envelope)

	default:
		p.handleEvent(conn, envelope)
	}
}

// handleAppPing 应答应用层 ping，携带 num 时原样回显
func (p *Processor) handleAppPing(conn Conn, envelope Envelope) {
	pong := pongMessage{Type: "pong"}
	if num, ok := envelope["num"].(json.Number); ok {
		pong.Num = &num
	}

	data, err := json.Marshal(pong)
	if err != nil {
		p.log.Error("pong 编码失败", zap.Error(err))
		return
	}
	if err := conn.Send(data); err != nil {
		p.log.Warn("pong 发送失败", zap.Error(err))
	}
}

// handleEvent 处理事件信封：先确认，再按注册顺序分发
func (p *Processor) handleEvent(conn Conn, envelope Envelope) {
	// 确认必须先于分发：平台的重投递计时不受慢消费者影响
	if id := envelope.EnvelopeID(); id != "" && conn.IsOpen() {
		data, err := json.Marshal(ackMessage{EnvelopeID: id})
		if err != nil {
			p.log.Error("确认消息编码失败", zap.Error(err))
		} else if err := conn.Send(data); err != nil {
			p.log.Warn("确认发送失败", zap.String("envelope_id", id), zap.Error(err))
		} else {
			p.metrics.IncrementAcks()
		}
	}

	p.mu.RLock()
	consumers := p.consumers
	p.mu.RUnlock()

	for i, consumer := range consumers {
		p.invoke(i, consumer, envelope)
	}
}

// invoke 调用单个消费者，异常被隔离，不影响后续消费者
func (p *Processor) invoke(index int, consumer Consumer, envelope Envelope) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.IncrementConsumerErrors()
			stack := debug.Stack()
			if len(stack) > maxConsumerStack {
				stack = stack[:maxConsumerStack]
			}
			p.log.Error("消费者异常",
				zap.Int("consumer", index),
				zap.Any("panic", r),
				zap.ByteString("stack", stack),
			)
		}
	}()

	consumer(envelope)
}
