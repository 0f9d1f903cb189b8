package qibot

import (
	"time"

	"github.com/tokmz/qibot/pkg/chat"
	"github.com/tokmz/qibot/pkg/config"
	"github.com/tokmz/qibot/pkg/logger"
	"github.com/tokmz/qibot/pkg/socketmode"
)

// Config 机器人配置
type Config struct {
	AppToken string // 应用级凭证，用于 socket mode 建连
	BotToken string // 机器人凭证，用于 web api 调用

	Logger     logger.Logger       // 日志器（nil 时使用 Default）
	SocketMode []socketmode.Option // socket mode 配置选项
	Chat       []chat.ClientOption // web api 客户端选项
}

// BotOption 机器人配置选项
type BotOption func(*Config)

// WithAppToken 设置应用级凭证
func WithAppToken(token string) BotOption {
	return func(c *Config) {
		c.AppToken = token
	}
}

// WithBotToken 设置机器人凭证
func WithBotToken(token string) BotOption {
	return func(c *Config) {
		c.BotToken = token
	}
}

// WithLogger 注入日志器
func WithLogger(log logger.Logger) BotOption {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithSocketModeOptions 附加 socket mode 配置选项
func WithSocketModeOptions(opts ...socketmode.Option) BotOption {
	return func(c *Config) {
		c.SocketMode = append(c.SocketMode, opts...)
	}
}

// WithChatOptions 附加 web api 客户端选项
func WithChatOptions(opts ...chat.ClientOption) BotOption {
	return func(c *Config) {
		c.Chat = append(c.Chat, opts...)
	}
}

// FileConfig 配置文件结构
type FileConfig struct {
	AppToken string `mapstructure:"app_token"`
	BotToken string `mapstructure:"bot_token"`

	SocketMode struct {
		StaleThreshold    time.Duration `mapstructure:"stale_threshold"`
		ConnectRetries    int           `mapstructure:"connect_retries"`
		ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
		ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	} `mapstructure:"socket_mode"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"log"`
}

// LoadFileConfig 从配置文件加载机器人配置
// 环境变量前缀 QIBOT（如 QIBOT_APP_TOKEN）可覆盖文件内容
func LoadFileConfig(path string) (*FileConfig, error) {
	c := config.New(
		config.WithConfigFile(path),
		config.WithEnvPrefix("QIBOT"),
	)
	if err := c.Load(); err != nil {
		return nil, err
	}

	var fc FileConfig
	if err := c.Unmarshal(&fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// WithFileConfig 应用配置文件内容
func WithFileConfig(fc *FileConfig) BotOption {
	return func(c *Config) {
		if fc.AppToken != "" {
			c.AppToken = fc.AppToken
		}
		if fc.BotToken != "" {
			c.BotToken = fc.BotToken
		}

		if fc.SocketMode.StaleThreshold > 0 {
			c.SocketMode = append(c.SocketMode, socketmode.WithStaleThreshold(fc.SocketMode.StaleThreshold))
		}
		if fc.SocketMode.ConnectRetries > 0 {
			c.SocketMode = append(c.SocketMode, socketmode.WithConnectRetries(fc.SocketMode.ConnectRetries))
		}
		if fc.SocketMode.ConnectRetryDelay > 0 {
			c.SocketMode = append(c.SocketMode, socketmode.WithConnectRetryDelay(fc.SocketMode.ConnectRetryDelay))
		}
		if fc.SocketMode.ReconnectDelay > 0 {
			c.SocketMode = append(c.SocketMode, socketmode.WithReconnectDelay(fc.SocketMode.ReconnectDelay))
		}

		if fc.Log.Level != "" || fc.Log.Format != "" || fc.Log.File != "" {
			log, err := logger.NewWithOptions(
				logger.WithLevel(logger.ParseLevel(fc.Log.Level)),
				logger.WithFormat(logger.Format(fc.Log.Format)),
				logger.WithFileOutput(fc.Log.File),
			)
			if err == nil {
				c.Logger = log
			}
		}
	}
}
