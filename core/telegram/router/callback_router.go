package router

import (
	"time"

	tg "github.com/sporttich/sportbot/core/telegram"
	"github.com/sporttich/sportbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches inline-button presses through the registry. The
// callback is acknowledged up front so the client stops its spinner even
// when the handler fails.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		start := time.Now()

		key, payload := parseCallback(cb)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		// Handlers read the payload back via callbacks.Payload.
		c.Set("cb_payload", payload)
		_ = c.Respond()

		target, ok := reg.GetCallback(key)
		if !ok || target == nil {
			target = reg.CallbackNotFound()
			if target == nil {
				target = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			if target == nil {
				return nil
			}
			return target(c)
		}, extras...)
	}

	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
