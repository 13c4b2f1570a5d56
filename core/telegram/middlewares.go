package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/sporttich/sportbot/core/config"
	"github.com/sporttich/sportbot/core/telegram/middleware"
	"github.com/sporttich/sportbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared middleware chain. Updates pass through
// recover, rate limit, per-user serialization, logging and metrics in that
// order, so a rate-limited update never takes the user lock.
func DefaultMiddlewares(cfg *coreconfig.Config, locks *state.Locker, onLimited func(tele.Context) error) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			opts := middleware.RateLimitOptions{
				Interval: interval,
				Exclude:  ex,
			}
			if onLimited != nil {
				opts.OnLimited = onLimited
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use:  middleware.RateLimitMiddleware(opts),
			})
		}
	}

	if locks != nil {
		mws = append(mws, Middleware{
			Name: "serialize",
			Use:  middleware.SerializeMiddleware(locks),
		})
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}
