package qibot

import (
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/qibot/pkg/logger"
)

// Next 中间件下一步函数
type Next func() error

// Middleware 中间件函数
// 不调用 next 即可短路后续阶段
type Middleware func(*Context, Next) error

// Chain 中间件链
// 显式有序列表，按索引逐层推进执行
type Chain struct {
	stages []Middleware
}

// Use 追加中间件
func (ch *Chain) Use(mw ...Middleware) {
	ch.stages = append(ch.stages, mw...)
}

// Then 将中间件链与最终处理器组合成单个处理器
func (ch *Chain) Then(final Handler) Handler {
	stages := ch.stages
	return func(c *Context) error {
		var exec func(i int) error
		exec = func(i int) error {
			if i == len(stages) {
				return final(c)
			}
			return stages[i](c, func() error {
				return exec(i + 1)
			})
		}
		return exec(0)
	}
}

// Recovery 捕获处理器 panic 的中间件
func Recovery(log logger.Logger) Middleware {
	return func(c *Context, next Next) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("处理器异常",
					zap.String("event_id", c.ID()),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()
		return next()
	}
}

// Logging 记录事件处理耗时的中间件
func Logging(log logger.Logger) Middleware {
	return func(c *Context, next Next) error {
		start := time.Now()
		err := next()
		log.Info("事件处理完成",
			zap.String("event_id", c.ID()),
			zap.String("type", c.Type()),
			zap.String("event_type", c.EventType()),
			zap.Duration("cost", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}
