package handlers

import (
	"strings"
	"time"

	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/backend"
	"github.com/sporttich/sportbot/internal/flow"
	"github.com/sporttich/sportbot/internal/model"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// CreateEventEntry starts the event creation flow after a profile check.
func (h *Handlers) CreateEventEntry(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.requireUser(ctx, c)
	if user == nil || err != nil {
		return err
	}
	if !user.ProfileComplete() {
		return tghelpers.SendHTML(c, ui.TextProfileFirst, ui.MainMenu())
	}
	return h.Flows.Start(c, flow.CreateEvent, map[string]any{flow.FieldCreatorID: user.ID})
}

// MyEvents lists events the user created and events the user joined.
func (h *Handlers) MyEvents(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.requireUser(ctx, c)
	if user == nil || err != nil {
		return err
	}

	created, err := h.API.GetEvents(ctx, 0, 5, user.ID)
	if err != nil {
		return tghelpers.SendHTML(c, ui.TextBackendDown, ui.MainMenu())
	}
	joined, err := h.API.GetUserEvents(ctx, user.ID)
	if err != nil {
		return tghelpers.SendHTML(c, ui.TextBackendDown, ui.MainMenu())
	}

	if len(created) == 0 && len(joined) == 0 {
		return tghelpers.SendHTML(c, ui.TextNoEvents, ui.MainMenu())
	}

	var b strings.Builder
	b.WriteString("<b>📋 Ваши тренировки:</b>\n\n")
	if len(created) > 0 {
		b.WriteString("<b>Созданные вами:</b>\n")
		for i := range created {
			b.WriteString(ui.FormatEventLine(&created[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(joined) > 0 {
		b.WriteString("<b>Вы участвуете:</b>\n")
		for i := range joined {
			b.WriteString(ui.FormatEventLine(&joined[i]))
			b.WriteString("\n")
		}
	}
	return tghelpers.SendHTML(c, b.String(), ui.MainMenu())
}

// SearchEvents shows upcoming events created by other users, each with a
// join button.
func (h *Handlers) SearchEvents(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.requireUser(ctx, c)
	if user == nil || err != nil {
		return err
	}

	from := time.Now().Format("2006-01-02T15:04:05")
	events, err := h.API.SearchEvents(ctx, model.EventSearch{DateFrom: &from, Limit: 20})
	if err != nil {
		return tghelpers.SendHTML(c, ui.TextBackendDown, ui.MainMenu())
	}

	shown := 0
	for i := range events {
		if events[i].CreatorID == user.ID {
			continue
		}
		if err := tghelpers.SendHTML(c, ui.FormatEvent(&events[i]), ui.JoinButton(events[i].ID)); err != nil {
			return err
		}
		shown++
		if shown >= 10 {
			break
		}
	}

	if shown == 0 {
		return tghelpers.SendHTML(c, ui.TextNoSearchHits, ui.MainMenu())
	}
	return tghelpers.SendHTML(c, ui.TextChooseAction, ui.MainMenu())
}

// Join handles the join callback: payload carries the event ID.
func (h *Handlers) Join(c tele.Context) error {
	return h.membership(c, true)
}

// Leave handles the leave callback.
func (h *Handlers) Leave(c tele.Context) error {
	return h.membership(c, false)
}

func (h *Handlers) membership(c tele.Context, join bool) error {
	ctx := tghelpers.BuildContext(c)

	eventID, err := eventIDFromPayload(c)
	if err != nil {
		return tghelpers.SendHTML(c, ui.TextUnknown, ui.MainMenu())
	}

	user, err := h.requireUser(ctx, c)
	if user == nil || err != nil {
		return err
	}

	if join {
		err = h.API.JoinEvent(ctx, eventID, user.ID)
	} else {
		err = h.API.LeaveEvent(ctx, eventID, user.ID)
	}

	switch {
	case err == nil:
		if join {
			return tghelpers.SendHTML(c, "✅ Вы записаны на тренировку!", ui.LeaveButton(eventID))
		}
		return tghelpers.SendHTML(c, "🚪 Вы покинули тренировку.", ui.MainMenu())
	case backend.IsRejected(err, backend.ReasonAlreadyJoined):
		return tghelpers.SendHTML(c, "ℹ️ Вы уже участвуете в этой тренировке.")
	case backend.IsRejected(err, backend.ReasonEventFull):
		return tghelpers.SendHTML(c, "😔 Все места уже заняты.")
	case backend.IsNotFound(err):
		return tghelpers.SendHTML(c, "❌ Тренировка не найдена, возможно её отменили.")
	case backend.IsUnavailable(err):
		return tghelpers.SendHTML(c, ui.TextBackendDown)
	default:
		if detail := backend.RejectionDetail(err); detail != "" {
			return tghelpers.SendHTML(c, "❌ "+detail)
		}
		return tghelpers.SendHTML(c, ui.TextUnknown)
	}
}
