package ui

import (
	"strconv"

	"github.com/sporttich/sportbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback keys registered with the callback router.
const (
	CallbackJoin  = "join"
	CallbackLeave = "leave"
)

// MainMenu returns the persistent reply keyboard.
func MainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnMyEvents, BtnSearchEvents},
		[]string{BtnCreateEvent, BtnProfile},
	)
}

// CancelMenu returns a reply keyboard with only the cancel button, shown
// during flows.
func CancelMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnCancel})
}

// SportMenu returns a reply keyboard with the sport list plus cancel.
func SportMenu(sports []string) *tele.ReplyMarkup {
	rows := make([][]string, 0, len(sports)/2+2)
	for i := 0; i < len(sports); i += 2 {
		end := i + 2
		if end > len(sports) {
			end = len(sports)
		}
		rows = append(rows, sports[i:end])
	}
	rows = append(rows, []string{BtnCancel})
	return keyboard.ReplyButtons(rows...)
}

// GenderMenu returns the gender choice keyboard.
func GenderMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{"Мужской", "Женский"},
		[]string{BtnCancel},
	)
}

// JoinButton returns an inline markup with a join button for the event.
func JoinButton(eventID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "✅ Присоединиться", Unique: CallbackJoin, Data: strconv.FormatInt(eventID, 10)},
	})
}

// LeaveButton returns an inline markup with a leave button for the event.
func LeaveButton(eventID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🚪 Покинуть", Unique: CallbackLeave, Data: strconv.FormatInt(eventID, 10)},
	})
}
