package handlers

import (
	"github.com/sporttich/sportbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

func eventIDFromPayload(c tele.Context) (int64, error) {
	return callbacks.PayloadInt64(c)
}
