package handlers

import (
	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/flow"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Start registers the account on first contact and shows the main menu.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()

	var username *string
	if sender.Username != "" {
		u := sender.Username
		username = &u
	}
	firstName := sender.FirstName
	if firstName == "" {
		firstName = sender.Username
	}

	if _, err := h.API.GetOrCreateUser(ctx, sender.ID, username, firstName); err != nil {
		return tghelpers.SendHTML(c, ui.TextBackendDown, ui.MainMenu())
	}
	return tghelpers.SendHTML(c, ui.TextWelcome, ui.MainMenu())
}

// Help shows the static command reference.
func (h *Handlers) Help(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.TextHelp, ui.MainMenu())
}

// Cancel aborts the active flow, or reports that nothing is active.
func (h *Handlers) Cancel(c tele.Context) error {
	if h.Flows.Abort(c) {
		return tghelpers.SendHTML(c, ui.TextCancelled, ui.MainMenu())
	}
	return tghelpers.SendHTML(c, ui.TextNothingToCancel, ui.MainMenu())
}

// RegisterEntry starts the profile registration flow.
func (h *Handlers) RegisterEntry(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.requireUser(ctx, c)
	if user == nil || err != nil {
		return err
	}
	if user.ProfileComplete() {
		return tghelpers.SendHTML(c,
			"✅ Вы уже зарегистрированы!\nПрофиль можно посмотреть кнопкой «"+ui.BtnProfile+"».",
			ui.MainMenu())
	}
	return h.Flows.Start(c, flow.Register, map[string]any{flow.FieldUserID: user.ID})
}
