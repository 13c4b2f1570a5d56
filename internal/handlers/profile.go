package handlers

import (
	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Profile shows the caller's profile card.
func (h *Handlers) Profile(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.requireUser(ctx, c)
	if user == nil || err != nil {
		return err
	}
	return tghelpers.SendHTML(c, ui.FormatProfile(user), ui.MainMenu())
}
