package bootstrap

import (
	"context"
	"fmt"
	"time"

	coreconfig "github.com/sporttich/sportbot/core/config"
	"github.com/sporttich/sportbot/core/logger"

	"log/slog"
)

// Options control the generic bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error

	// HealthCheck probes the backend API. The probe is advisory: the bot
	// starts even when the backend is down and reports unavailability to
	// users per request.
	HealthCheck    func(ctx context.Context) error
	HealthAttempts int
	HealthBackoff  time.Duration
}

// Run initializes the logger and probes backend availability.
func Run(opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.HealthCheck != nil {
		probeBackend(opts)
	}

	return nil
}

func probeBackend(opts Options) {
	attempts := opts.HealthAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := opts.HealthBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	apiLog := logger.L.With("component", "api")
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := opts.HealthCheck(ctx)
		cancel()
		if err == nil {
			apiLog.Info("backend reachable",
				slog.String("event", "health"),
				slog.String("status", "ok"),
				slog.Int("attempts", attempt),
			)
			return
		}
		apiLog.Warn("backend health check failed",
			slog.String("event", "health"),
			slog.String("status", "fail"),
			slog.Int("attempts", attempt),
			slog.String("err", err.Error()),
		)
		if attempt < attempts {
			time.Sleep(backoff)
		}
	}
	apiLog.Error("backend unreachable, starting degraded",
		slog.String("event", "health"),
		slog.String("status", "fail"),
	)
}
