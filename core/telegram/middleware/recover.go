package middleware

import (
	"runtime/debug"

	"github.com/sporttich/sportbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// OnPanic, when set, is invoked with the sender ID after a recovered panic.
var OnPanic func(userID int64)

// OnPanicReply, when set, delivers the user-facing notice after a recovered
// panic. Without it a plain apology goes out via c.Send.
var OnPanicReply func(c tele.Context) error

const panicNotice = "😔 Что-то пошло не так. Попробуйте ещё раз."

// RecoverMiddleware catches panics in handlers: the failure is logged, the
// session hook runs and the user receives a generic apology.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(logger.Background(), "tg", "tg.panic",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				if OnPanic != nil {
					if sender := c.Sender(); sender != nil {
						OnPanic(sender.ID)
					}
				}
				if OnPanicReply != nil {
					_ = OnPanicReply(c)
				} else {
					_ = c.Send(panicNotice)
				}
			}
		}()
		return next(c)
	}
}
