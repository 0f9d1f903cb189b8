package socketmode

import (
	"fmt"
	"time"
)

// DefaultEndpointURL 默认的连接端点解析地址
const DefaultEndpointURL = "https://slack.com/api/apps.connections.open"

// Config Socket Mode 配置
type Config struct {
	// 端点配置
	EndpointURL    string        // 端点解析地址
	RequestTimeout time.Duration // 端点解析请求超时

	// 连接配置
	HandshakeTimeout time.Duration // 握手超时时间
	WriteWait        time.Duration // 写超时时间
	MaxMessageSize   int64         // 最大消息大小

	// 重连配置
	ConnectRetries    int           // 单轮连接最大尝试次数
	ConnectRetryDelay time.Duration // 连接失败后的重试间隔
	ReconnectDelay    time.Duration // 断线后重连前的等待时间

	// 保活配置
	StaleThreshold       time.Duration // 无任何帧到达后判定连接僵死的阈值
	PollInterval         time.Duration // 运行循环轮询间隔
	HeartbeatLogInterval time.Duration // 心跳日志输出间隔

	// 监控
	Metrics Metrics
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		EndpointURL:          DefaultEndpointURL,
		RequestTimeout:       10 * time.Second,
		HandshakeTimeout:     10 * time.Second,
		WriteWait:            10 * time.Second,
		MaxMessageSize:       512 * 1024, // 512KB
		ConnectRetries:       5,
		ConnectRetryDelay:    5 * time.Second,
		ReconnectDelay:       5 * time.Second,
		StaleThreshold:       45 * time.Second,
		PollInterval:         100 * time.Millisecond,
		HeartbeatLogInterval: 60 * time.Second,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("%w: EndpointURL must not be empty", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: RequestTimeout must be positive, got %v", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.HandshakeTimeout <= 0 {
		return fmt.Errorf("%w: HandshakeTimeout must be positive, got %v", ErrInvalidConfig, c.HandshakeTimeout)
	}
	if c.WriteWait <= 0 {
		return fmt.Errorf("%w: WriteWait must be positive, got %v", ErrInvalidConfig, c.WriteWait)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("%w: MaxMessageSize must be positive, got %d", ErrInvalidConfig, c.MaxMessageSize)
	}
	if c.ConnectRetries <= 0 {
		return fmt.Errorf("%w: ConnectRetries must be positive, got %d", ErrInvalidConfig, c.ConnectRetries)
	}
	if c.ConnectRetryDelay <= 0 {
		return fmt.Errorf("%w: ConnectRetryDelay must be positive, got %v", ErrInvalidConfig, c.ConnectRetryDelay)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("%w: ReconnectDelay must be positive, got %v", ErrInvalidConfig, c.ReconnectDelay)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: PollInterval must be positive, got %v", ErrInvalidConfig, c.PollInterval)
	}
	if c.StaleThreshold <= c.PollInterval {
		return fmt.Errorf("%w: StaleThreshold (%v) must be greater than PollInterval (%v)",
			ErrInvalidConfig, c.StaleThreshold, c.PollInterval)
	}
	if c.HeartbeatLogInterval <= 0 {
		return fmt.Errorf("%w: HeartbeatLogInterval must be positive, got %v", ErrInvalidConfig, c.HeartbeatLogInterval)
	}
	return nil
}

// Option 配置选项
type Option func(*Config)

// WithEndpointURL 设置端点解析地址
func WithEndpointURL(url string) Option {
	return func(c *Config) {
		c.EndpointURL = url
	}
}

// WithRequestTimeout 设置端点解析请求超时
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithHandshakeTimeout 设置握手超时
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HandshakeTimeout = timeout
	}
}

// WithWriteWait 设置写超时
func WithWriteWait(timeout time.Duration) Option {
	return func(c *Config) {
		c.WriteWait = timeout
	}
}

// WithMaxMessageSize 设置消息大小限制
func WithMaxMessageSize(size int64) Option {
	return func(c *Config) {
		c.MaxMessageSize = size
	}
}

// WithConnectRetries 设置单轮连接最大尝试次数
func WithConnectRetries(n int) Option {
	return func(c *Config) {
		c.ConnectRetries = n
	}
}

// WithConnectRetryDelay 设置连接重试间隔
func WithConnectRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.ConnectRetryDelay = delay
	}
}

// WithReconnectDelay 设置断线重连等待时间
func WithReconnectDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.ReconnectDelay = delay
	}
}

// WithStaleThreshold 设置僵死连接判定阈值
// 高延迟网络环境可适当调大
func WithStaleThreshold(threshold time.Duration) Option {
	return func(c *Config) {
		c.StaleThreshold = threshold
	}
}

// WithPollInterval 设置运行循环轮询间隔
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.PollInterval = interval
	}
}

// WithHeartbeatLogInterval 设置心跳日志间隔
func WithHeartbeatLogInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.HeartbeatLogInterval = interval
	}
}

// WithMetrics 设置监控
func WithMetrics(metrics Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}
