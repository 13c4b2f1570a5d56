// Package handlers implements the bot's static commands, menu buttons and
// callbacks on top of the backend client and the flow executor.
package handlers

import (
	"context"

	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/backend"
	"github.com/sporttich/sportbot/internal/flow"
	"github.com/sporttich/sportbot/internal/model"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Handlers bundles the dependencies shared by all handlers.
type Handlers struct {
	API   *backend.Client
	Flows *flow.Executor
}

func New(api *backend.Client, flows *flow.Executor) *Handlers {
	return &Handlers{API: api, Flows: flows}
}

// requireUser resolves the sender to a backend record, replying on its own
// when the lookup fails. A nil user with nil error means the reply was
// already sent.
func (h *Handlers) requireUser(ctx context.Context, c tele.Context) (*model.User, error) {
	user, err := h.API.GetUserByTelegramID(ctx, c.Sender().ID)
	if err == nil {
		return user, nil
	}
	if backend.IsNotFound(err) {
		return nil, tghelpers.SendHTML(c, ui.TextUserNotFound, ui.MainMenu())
	}
	return nil, tghelpers.SendHTML(c, ui.TextBackendDown, ui.MainMenu())
}
