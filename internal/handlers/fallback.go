package handlers

import (
	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Unknown answers unrecognized text and commands with the menu.
func (h *Handlers) Unknown(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.TextUnknown, ui.MainMenu())
}

// CallbackNotFound answers callbacks whose key has no registered handler,
// typically from messages older than the current build.
func (h *Handlers) CallbackNotFound(c tele.Context) error {
	return tghelpers.SendHTML(c, "Эта кнопка больше не активна. Используйте меню.")
}
