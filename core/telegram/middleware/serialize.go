package middleware

import (
	"github.com/sporttich/sportbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// SerializeMiddleware holds a per-user lock for the whole update: updates
// from one user are handled strictly in order, different users proceed in
// parallel.
func SerializeMiddleware(locks *state.Locker) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if locks == nil || sender == nil {
				return next(c)
			}
			locks.Lock(sender.ID)
			defer locks.Unlock(sender.ID)
			return next(c)
		}
	}
}
