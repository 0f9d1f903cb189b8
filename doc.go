/*
Package qibot is a framework for building chat-platform bots over Socket
Mode: the bot keeps an outbound duplex connection to receive events, so no
publicly reachable inbound endpoint is needed.

# Features

  - Socket Mode connection management with automatic reconnect
  - Zombie connection detection and self-healing
  - Envelope acknowledgement independent of handler latency
  - Explicit handler registry with composable matchers
  - Ordered middleware chain with short-circuit support
  - Structured logging via zap

# Basic Usage

Create a bot, register middleware and handlers, then run:

	bot, err := qibot.New(
	    qibot.WithAppToken(os.Getenv("QIBOT_APP_TOKEN")),
	    qibot.WithBotToken(os.Getenv("QIBOT_BOT_TOKEN")),
	)
	if err != nil {
	    log.Fatal(err)
	}

	bot.Use(qibot.Recovery(logger), qibot.Logging(logger))

	bot.Register(qibot.OnEvent("app_mention"), func(c *qibot.Context) error {
	    return c.Say("hi!")
	})

	bot.Register(qibot.OnMessage(regexp.MustCompile(`^deploy\b`)), func(c *qibot.Context) error {
	    return c.Say("deploying...")
	})

	// Blocks until SIGINT/SIGTERM or the connection supervisor gives up.
	if err := bot.Run(); err != nil {
	    log.Fatal(err)
	}

# Configuration Files

Bot settings can come from a YAML file, with QIBOT_* environment variables
taking precedence:

	fc, err := qibot.LoadFileConfig("config.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	bot, err := qibot.New(qibot.WithFileConfig(fc))

# Layering

The root package is a thin dispatch layer. Connection lifecycle, staleness
detection, acknowledgement, and ping/pong handling live in pkg/socketmode;
outbound REST calls live in pkg/chat.
*/
package qibot
