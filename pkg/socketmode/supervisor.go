package socketmode

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/qibot/pkg/logger"
)

// State 连接状态
type State int32

const (
	// StateDisconnected 未连接
	StateDisconnected State = iota
	// StateConnecting 连接中
	StateConnecting
	// StateConnected 已连接
	StateConnected
	// StateStopping 停止中
	StateStopping
	// StateStopped 已停止
	StateStopped
)

// String 状态名称
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Supervisor 连接监督器
// 负责会话生命周期：带重试的建连、僵死检测与强制重连、
// 以及驱动整个运行循环直到收到停止请求
type Supervisor struct {
	resolver  *Resolver
	processor *Processor
	config    *Config
	log       logger.Logger
	metrics   Metrics

	started atomic.Bool
	running atomic.Bool
	state   atomic.Int32

	// mu 保护 session 与 lastFrame：
	// 两者会被运行循环和会话读协程两个上下文并发访问
	mu        sync.Mutex
	session   *Session
	lastFrame time.Time
}

// NewSupervisor 创建连接监督器
func NewSupervisor(resolver *Resolver, processor *Processor, config *Config, log logger.Logger) (*Supervisor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = &NoopMetrics{}
	}

	return &Supervisor{
		resolver:  resolver,
		processor: processor,
		config:    config,
		log:       log,
		metrics:   metrics,
	}, nil
}

// Start 启动监督器，阻塞直到停止
// 只能启动一次：停止后不会重新开始
func (s *Supervisor) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	s.running.Store(true)
	s.log.Info("socket mode 启动")

	s.connectWithRetry()
	s.runLoop()

	s.log.Info("socket mode 已停止")
	return nil
}

// Stop 停止监督器并关闭当前连接
// 可重复调用；仅限普通调用上下文（会做 I/O）
func (s *Supervisor) Stop() {
	s.running.Store(false)
	s.closeSession()
}

// RequestStop 仅翻转运行标志，实际清理由运行循环在自身上下文完成
// 不加锁、不做 I/O、不分配内存，可安全用于信号处理等异步中断上下文
func (s *Supervisor) RequestStop() {
	s.running.Store(false)
}

// Running 运行标志
func (s *Supervisor) Running() bool {
	return s.running.Load()
}

// Connected 当前是否持有打开的连接
func (s *Supervisor) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.session.IsOpen()
}

// State 当前状态
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// runLoop 运行循环：周期检查僵死与断线，直到运行标志清除
// 任何退出路径都会关闭持有的连接
func (s *Supervisor) runLoop() {
	defer func() {
		s.closeSession()
		s.setState(StateStopped)
	}()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()
	heartbeat := time.NewTicker(s.config.HeartbeatLogInterval)
	defer heartbeat.Stop()

	for s.running.Load() {
		select {
		case <-ticker.C:
			s.checkStale()
			s.checkReconnect()
		case <-heartbeat.C:
			s.log.Info("运行中",
				zap.String("state", s.State().String()),
				zap.Bool("connected", s.Connected()),
			)
		}
	}

	s.setState(StateStopping)
}

// connectWithRetry 带重试的建连
// 重试耗尽后清除运行标志并记录日志，不向上抛错：
// 监督器是无人值守的后台进程，失败只通过日志暴露
func (s *Supervisor) connectWithRetry() bool {
	s.setState(StateConnecting)

	for attempt := 1; attempt <= s.config.ConnectRetries; attempt++ {
		if !s.running.Load() {
			return false
		}

		s.metrics.IncrementConnectAttempts()
		if err := s.connectOnce(); err != nil {
			s.metrics.IncrementConnectFailures()
			s.log.Warn("连接失败",
				zap.Int("attempt", attempt),
				zap.Int("retries", s.config.ConnectRetries),
				zap.Error(err),
			)
			if attempt < s.config.ConnectRetries {
				s.sleep(s.config.ConnectRetryDelay)
			}
			continue
		}

		s.setState(StateConnected)
		s.log.Info("连接已建立", zap.Int("attempt", attempt))
		return true
	}

	s.running.Store(false)
	s.log.Error("连接重试耗尽，放弃运行", zap.Int("retries", s.config.ConnectRetries))
	return false
}

// connectOnce 解析端点并建立一次连接
func (s *Supervisor) connectOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(),
		s.config.RequestTimeout+s.config.HandshakeTimeout)
	defer cancel()

	endpoint, err := s.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	// sess 在 Run 启动前完成赋值，回调闭包引用是安全的
	var sess *Session
	callbacks := SessionCallbacks{
		OnFrame: func(kind FrameKind, payload []byte) {
			s.touch()
			s.processor.Process(sess, kind, payload)
		},
		OnError: func(err error) {
			s.log.Warn("连接错误", zap.Error(err))
		},
		OnClosed: func() {
			s.log.Info("连接已关闭")
		},
	}

	sess, err = OpenSession(ctx, endpoint, s.config, callbacks)
	if err != nil {
		return err
	}

	s.install(sess)
	go sess.Run()

	return nil
}

// install 安装新会话，同一时刻最多持有一个会话
func (s *Supervisor) install(sess *Session) {
	s.mu.Lock()
	old := s.session
	s.session = sess
	s.lastFrame = time.Time{}
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// touch 刷新活性标记，任何入站帧都算连接存活的证据
func (s *Supervisor) touch() {
	s.mu.Lock()
	s.lastFrame = time.Now()
	s.mu.Unlock()
}

// checkStale 僵死检测
// 传输层自认为打开、却超过阈值没有任何帧到达时强制关闭，
// 由后续的 checkReconnect 重新建连
func (s *Supervisor) checkStale() {
	s.mu.Lock()
	sess := s.session
	last := s.lastFrame
	s.mu.Unlock()

	if sess == nil || !sess.IsOpen() || last.IsZero() {
		return
	}

	idle := time.Since(last)
	if idle <= s.config.StaleThreshold {
		return
	}

	s.metrics.IncrementStaleDetections()
	s.log.Warn("连接僵死，强制重连",
		zap.Duration("idle", idle),
		zap.Duration("threshold", s.config.StaleThreshold),
	)

	sess.Close()

	s.mu.Lock()
	s.lastFrame = time.Time{}
	s.mu.Unlock()
}

// checkReconnect 断线重连
func (s *Supervisor) checkReconnect() {
	if !s.running.Load() || s.Connected() {
		return
	}

	s.setState(StateDisconnected)
	s.log.Info("连接断开，等待重连", zap.Duration("delay", s.config.ReconnectDelay))
	s.sleep(s.config.ReconnectDelay)

	if !s.running.Load() {
		return
	}

	s.metrics.IncrementReconnects()
	s.connectWithRetry()
}

// closeSession 释放当前会话并清除活性标记
func (s *Supervisor) closeSession() {
	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.lastFrame = time.Time{}
	s.mu.Unlock()

	if sess != nil {
		sess.Close()
	}
}

// sleep 可被停止请求打断的等待
func (s *Supervisor) sleep(d time.Duration) {
	deadline := time.Now().Add(d)
	for s.running.Load() && time.Now().Before(deadline) {
		time.Sleep(s.config.PollInterval)
	}
}

// setState 更新状态
func (s *Supervisor) setState(state State) {
	s.state.Store(int32(state))
}
