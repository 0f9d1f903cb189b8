package qibot

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tokmz/qibot/pkg/chat"
	"github.com/tokmz/qibot/pkg/logger"
	"github.com/tokmz/qibot/pkg/socketmode"
)

// Bot 机器人引擎
// 所有依赖在构造时装配并按引用传递，不使用任何全局可变状态
type Bot struct {
	config *Config
	log    logger.Logger

	chat       *chat.Client
	router     *Router
	chain      *Chain
	processor  *socketmode.Processor
	supervisor *socketmode.Supervisor
}

// New 创建机器人
func New(opts ...BotOption) (*Bot, error) {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	if config.AppToken == "" {
		return nil, ErrMissingAppToken
	}
	if config.BotToken == "" {
		return nil, ErrMissingBotToken
	}

	log := config.Logger
	if log == nil {
		log = logger.Default()
	}

	chatClient, err := chat.NewClient(config.BotToken, log, config.Chat...)
	if err != nil {
		return nil, err
	}

	smConfig := socketmode.DefaultConfig()
	for _, opt := range config.SocketMode {
		opt(smConfig)
	}

	resolver, err := socketmode.NewResolver(config.AppToken, smConfig, log)
	if err != nil {
		return nil, err
	}

	processor := socketmode.NewProcessor(log, smConfig.Metrics)
	supervisor, err := socketmode.NewSupervisor(resolver, processor, smConfig, log)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		config:     config,
		log:        log,
		chat:       chatClient,
		router:     NewRouter(),
		chain:      &Chain{},
		processor:  processor,
		supervisor: supervisor,
	}

	// 信封消费者：经中间件链进入路由器
	processor.OnEvent(b.dispatch)

	return b, nil
}

// Router 事件路由器
func (b *Bot) Router() *Router {
	return b.router
}

// Use 追加全局中间件
func (b *Bot) Use(mw ...Middleware) {
	b.chain.Use(mw...)
}

// Register 注册事件处理器
func (b *Bot) Register(matcher Matcher, handler Handler) {
	b.router.Register(matcher, handler)
}

// OnEvent 注册原始信封消费者，绕过中间件链和路由器
func (b *Bot) OnEvent(fn socketmode.Consumer) {
	b.processor.OnEvent(fn)
}

// Chat web api 客户端
func (b *Bot) Chat() *chat.Client {
	return b.chat
}

// dispatch 把信封送入中间件链与路由器
func (b *Bot) dispatch(envelope socketmode.Envelope) {
	c := newContext(context.Background(), envelope, b.log, b.chat)

	handler := b.chain.Then(b.router.Dispatch)
	if err := handler(c); err != nil {
		if errors.Is(err, ErrNoHandler) {
			b.log.Debug("事件无处理器",
				zap.String("event_id", c.ID()),
				zap.String("type", c.Type()),
				zap.String("event_type", c.EventType()),
			)
			return
		}
		b.log.Error("事件处理失败", zap.String("event_id", c.ID()), zap.Error(err))
	}
}

// Run 启动机器人，阻塞直到停止
// SIGINT/SIGTERM 触发协作式停止：信号上下文里只翻转运行标志，
// 连接清理由监督器的运行循环自行完成
func (b *Bot) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return b.supervisor.Start()
	})

	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case <-sig:
			b.supervisor.RequestStop()
		case <-ctx.Done():
		}
		return nil
	})

	err := g.Wait()
	_ = b.log.Sync()
	return err
}

// Stop 停止机器人并关闭连接
func (b *Bot) Stop() {
	b.supervisor.Stop()
}

// RequestStop 请求停止，可安全用于信号处理上下文
func (b *Bot) RequestStop() {
	b.supervisor.RequestStop()
}

// Running 是否仍在运行
func (b *Bot) Running() bool {
	return b.supervisor.Running()
}

// Connected 是否持有打开的连接
func (b *Bot) Connected() bool {
	return b.supervisor.Connected()
}
