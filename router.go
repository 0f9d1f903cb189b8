package qibot

import (
	"regexp"
	"sync"
)

// Handler 事件处理器
type Handler func(*Context) error

// Matcher 事件匹配器
type Matcher func(*Context) bool

// OnType 匹配信封类型（events_api / slash_commands 等）
func OnType(t string) Matcher {
	return func(c *Context) bool {
		return c.Type() == t
	}
}

// OnEvent 匹配事件类型（message / app_mention 等）
func OnEvent(eventType string) Matcher {
	return func(c *Context) bool {
		return c.EventType() == eventType
	}
}

// OnMessage 匹配文本符合正则的 message 事件
func OnMessage(re *regexp.Regexp) Matcher {
	return func(c *Context) bool {
		return c.EventType() == "message" && re.MatchString(c.Text())
	}
}

// route 一条注册记录
type route struct {
	matcher Matcher
	handler Handler
}

// Router 事件路由器
// 显式注册表：匹配器与处理器在启动阶段通过 Register 逐条登记，
// 分发时按注册顺序取第一个匹配的处理器
type Router struct {
	mu     sync.RWMutex
	routes []route
}

// NewRouter 创建路由器
func NewRouter() *Router {
	return &Router{}
}

// Register 注册处理器
func (r *Router) Register(matcher Matcher, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{matcher: matcher, handler: handler})
}

// Dispatch 分发事件，没有处理器匹配时返回 ErrNoHandler
func (r *Router) Dispatch(c *Context) error {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	for _, rt := range routes {
		if rt.matcher(c) {
			return rt.handler(c)
		}
	}
	return ErrNoHandler
}
