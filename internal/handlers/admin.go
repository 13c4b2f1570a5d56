package handlers

import (
	"fmt"
	"strings"

	"github.com/sporttich/sportbot/core/telegram/format"
	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Users lists the first page of registered users. Admin only, wired through
// the admin gate middleware.
func (h *Handlers) Users(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	users, err := h.API.ListUsers(ctx, 0, 0, 20)
	if err != nil {
		return tghelpers.SendHTML(c, ui.TextBackendDown)
	}
	if len(users) == 0 {
		return tghelpers.SendHTML(c, "Пока никто не зарегистрирован.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Пользователи (%d):</b>\n", len(users))
	for i := range users {
		u := &users[i]
		fmt.Fprintf(&b, "• %s", format.EscapeHTML(u.FirstName))
		if un := format.Deref(u.Username, ""); un != "" {
			fmt.Fprintf(&b, " @%s", format.EscapeHTML(un))
		}
		fmt.Fprintf(&b, " (tg %d)\n", u.TelegramID)
	}
	return tghelpers.SendHTML(c, b.String())
}

// AdminReject answers a non-admin trying an admin command.
func (h *Handlers) AdminReject(c tele.Context) error {
	return tghelpers.SendHTML(c, ui.TextAccessDenied)
}
