// Package main is the entrypoint for the one-shot email notification
// dispatcher.
//
// Startup sequence:
//  1. Initialize structured JSON logger.
//  2. Load and validate configuration from the environment (fail fast,
//     enumerating every missing variable at once).
//  3. Wire the pipeline: context builder, renderer, SMTP sender, event
//     composer, NATS publisher, orchestrator.
//  4. Run the pipeline once and exit 0 iff the final verdict is true.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	"github.com/colinjlacy/knapscen-email-notifications/internal/notifications/core"
	emailpkg "github.com/colinjlacy/knapscen-email-notifications/internal/notifications/email"
	"github.com/colinjlacy/knapscen-email-notifications/internal/notifications/event"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
// slog.Logger satisfies Info/Error/Warn directly, but With returns
// *slog.Logger rather than types.Logger, so an adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// parseLogLevel maps the LOG_LEVEL config value onto a slog.Level,
// defaulting to info for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap logger at info; replaced once config is loaded.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		// Configuration failures abort before any stage runs.
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			logger.Error("configuration invalid",
				"error_type", string(cfgErr.Type),
				"error", cfgErr.Error(),
			)
		} else {
			logger.Error("configuration invalid", "error", err.Error())
		}
		return 1
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	// Each run is tagged with a trace id so the one-shot invocation can be
	// correlated across mail and bus logs.
	typedLogger := (&slogAdapter{logger: logger}).With(
		"trace_id", uuid.NewString(),
		"version", cfg.Build.Version,
	)

	typedLogger.Info("email notification service starting",
		"template_type", cfg.Notification.Template,
	)

	channel := emailpkg.NewEmailChannel(emailpkg.EmailChannelConfig{
		Renderer: emailpkg.NewRenderer(),
		Sender:   emailpkg.NewSMTPSender(cfg.SMTP, typedLogger),
		From:     cfg.SMTP.User,
		Logger:   typedLogger,
	})

	orch := core.NewOrchestrator(core.OrchestratorConfig{
		Template:   cfg.Notification.Template,
		Contexts:   emailpkg.NewContextBuilder(cfg.Notification, typedLogger),
		Recipients: emailpkg.NewSelector(cfg.Notification),
		Deliverer:  channel,
		Composer:   event.NewComposer(cfg.Notification, types.RealClock{}),
		Publisher:  event.NewNATSPublisher(cfg.NATS, typedLogger),
		Logger:     typedLogger,
	})

	verdict, err := orch.Run(context.Background())
	if err != nil {
		typedLogger.Error("notification run failed", "error", err.Error())
		return 1
	}

	// The verdict is "fully confirmed", not "mail delivered": a publish
	// failure after a successful send exits 1 even though the email went
	// out. Check the mail_sent field in the logs before re-running.
	if !verdict.OK() {
		typedLogger.Error("email notification service failed",
			"mail_sent", verdict.MailSent,
			"event_published", verdict.EventPublished,
		)
		return 1
	}

	typedLogger.Info("email notification service completed successfully")
	return 0
}
