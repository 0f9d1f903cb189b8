package socketmode

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// FrameKind 帧类型
type FrameKind string

const (
	// FrameData 数据帧（JSON 文本）
	FrameData FrameKind = "data"
	// FramePing 协议层 Ping 控制帧（区别于应用层 JSON ping）
	FramePing FrameKind = "ping"
)

// SessionCallbacks 会话事件回调
// 回调在会话自身的读协程中执行，不可长时间阻塞
type SessionCallbacks struct {
	OnOpen   func()
	OnFrame  func(kind FrameKind, payload []byte)
	OnError  func(err error)
	OnClosed func()
}

// Session 传输会话，持有一条物理 WebSocket 连接
// 一个 Session 只对应一次连接尝试，断开后不可复用
type Session struct {
	conn      *websocket.Conn
	config    *Config
	callbacks SessionCallbacks

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

// OpenSession 建立连接
// endpoint 为一次性连接地址，ctx 取消时中断握手；
// 连接建立后需调用 Run 启动读循环
func OpenSession(ctx context.Context, endpoint string, config *Config, callbacks SessionCallbacks) (*Session, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: config.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	s := &Session{
		conn:      conn,
		config:    config,
		callbacks: callbacks,
	}

	conn.SetReadLimit(config.MaxMessageSize)

	// 协议层 Ping 不会从 ReadMessage 返回，通过 handler 上报
	// Pong 应答由上层（Processor）调用 SendPong 完成
	conn.SetPingHandler(func(appData string) error {
		if s.callbacks.OnFrame != nil {
			s.callbacks.OnFrame(FramePing, []byte(appData))
		}
		return nil
	})

	return s, nil
}

// Run 启动读循环，阻塞直到连接关闭
func (s *Session) Run() {
	if s.callbacks.OnOpen != nil {
		s.callbacks.OnOpen()
	}
	s.readPump()
}

// readPump 读取消息直到连接关闭
func (s *Session) readPump() {
	defer func() {
		s.Close()
		if s.callbacks.OnClosed != nil {
			s.callbacks.OnClosed()
		}
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			// 主动关闭导致的读失败不作为错误上报
			if !s.closed.Load() && s.callbacks.OnError != nil {
				s.callbacks.OnError(err)
			}
			return
		}

		if s.callbacks.OnFrame != nil {
			s.callbacks.OnFrame(FrameData, data)
		}
	}
}

// Send 发送数据帧
func (s *Session) Send(data []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// SendPong 发送协议层 Pong 控制帧，payload 必须与收到的 Ping 逐字节一致
func (s *Session) SendPong(payload []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.conn.WriteControl(websocket.PongMessage, payload, time.Now().Add(s.config.WriteWait))
}

// IsOpen 检查连接是否仍然打开
// 仅反映传输层状态，不代表数据仍在流动（僵死检测由 Supervisor 负责）
func (s *Session) IsOpen() bool {
	return !s.closed.Load()
}

// Close 关闭连接，可重复调用
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		// 尽力发送关闭帧，忽略错误
		deadline := time.Now().Add(s.config.WriteWait)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = s.conn.Close()
	})
}
