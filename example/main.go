package main

import (
	"log"
	"os"
	"regexp"

	"github.com/tokmz/qibot"
	"github.com/tokmz/qibot/pkg/logger"
)

func main() {
	lg, err := logger.NewWithOptions(
		logger.WithLevel(logger.DebugLevel),
		logger.WithFormat(logger.ConsoleFormat),
		logger.WithConsoleOutput(),
	)
	if err != nil {
		log.Fatal(err)
	}

	bot, err := qibot.New(
		qibot.WithAppToken(os.Getenv("QIBOT_APP_TOKEN")),
		qibot.WithBotToken(os.Getenv("QIBOT_BOT_TOKEN")),
		qibot.WithLogger(lg),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 全局中间件
	bot.Use(qibot.Recovery(lg), qibot.Logging(lg))

	// @机器人 时打招呼
	bot.Register(qibot.OnEvent("app_mention"), func(c *qibot.Context) error {
		return c.Say("你好！")
	})

	// 匹配 ping 开头的消息
	bot.Register(qibot.OnMessage(regexp.MustCompile(`^ping\b`)), func(c *qibot.Context) error {
		return c.Say("pong")
	})

	// 阻塞运行，SIGINT/SIGTERM 触发优雅退出
	if err := bot.Run(); err != nil {
		log.Fatal(err)
	}
}
