package qibot

import "errors"

// 错误定义
var (
	// ErrMissingAppToken 缺少应用级凭证（socket mode 连接用）
	ErrMissingAppToken = errors.New("qibot: missing app token")
	// ErrMissingBotToken 缺少机器人凭证（web api 调用用）
	ErrMissingBotToken = errors.New("qibot: missing bot token")
	// ErrNoHandler 没有处理器匹配该事件
	ErrNoHandler = errors.New("qibot: no handler matched")
)
