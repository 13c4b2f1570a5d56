package flow

import (
	"context"
	"strconv"
	"strings"
	"time"

	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/backend"
	"github.com/sporttich/sportbot/internal/model"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

const dateInputLayout = "02.01.2006 15:04"

// NewCreateEventFlow builds the event creation dialog. The entry handler
// seeds FieldCreatorID with the caller's backend user ID.
func NewCreateEventFlow(api *backend.Client, now func() time.Time) *Descriptor {
	if now == nil {
		now = time.Now
	}
	return &Descriptor{
		Name: CreateEvent,
		Steps: []Step{
			{
				Field: "title",
				Prompt: "📝 Создание новой тренировки\n\n" +
					"Введите название тренировки:\n\n" +
					"💡 Используйте /cancel для отмены",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					if len([]rune(input)) < 3 {
						return nil, "❌ Название должно быть не менее 3 символов"
					}
					return input, ""
				},
			},
			{
				Field: "date",
				Prompt: "📅 Введите дату и время тренировки\n" +
					"Формат: ДД.ММ.ГГГГ ЧЧ:ММ\n" +
					"Например: 25.12.2026 18:00",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					t, err := time.ParseInLocation(dateInputLayout, input, time.Local)
					if err != nil {
						// Lenient second pass for ISO-style and abbreviated input.
						var ok bool
						if t, ok = tghelpers.ParseFlexibleDate(input); !ok {
							return nil, "❌ Неверный формат даты. Используйте: ДД.ММ.ГГГГ ЧЧ:ММ\nНапример: 25.12.2026 18:00"
						}
					}
					if t.Before(now()) {
						return nil, "❌ Дата не может быть в прошлом"
					}
					return t, ""
				},
			},
			{
				Field:  "location",
				Prompt: "📍 Введите место проведения тренировки",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					if input == "" {
						return nil, "❌ Укажите место проведения"
					}
					return input, ""
				},
			},
			{
				Field:  "sport_type",
				Prompt: "🏋️ Выберите вид спорта:",
				Markup: ui.SportMenu(model.SportTypes),
				Validate: func(input string) (any, string) {
					if !model.KnownSport(input) {
						return nil, "❌ Выберите вид спорта кнопкой ниже"
					}
					return input, ""
				},
			},
			{
				Field:  "max_participants",
				Prompt: "👥 Сколько человек нужно?\n(отправьте число или '0' если без ограничений)",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					n, err := strconv.Atoi(input)
					if err != nil || n < 0 {
						return nil, "❌ Введите число или '0' если без ограничений"
					}
					return n, ""
				},
			},
			{
				Field:  "fee",
				Prompt: "💰 Есть ли взнос?\n(отправьте сумму в рублях или '0' если бесплатно)",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					f, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
					if err != nil || f < 0 {
						return nil, "❌ Введите сумму или '0' если бесплатно"
					}
					return f, ""
				},
			},
			{
				Field:  "note",
				Prompt: "📝 Добавьте примечание (опционально)\nИли отправьте 'пропустить'",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					if input == "" {
						return nil, "❌ Пожалуйста, отправьте примечание или 'пропустить'"
					}
					if strings.EqualFold(input, "пропустить") {
						return "", ""
					}
					return input, ""
				},
			},
		},
		Complete: func(ctx context.Context, c tele.Context, fields map[string]any) error {
			creatorID, _ := fields[FieldCreatorID].(int64)
			payload := model.EventCreate{
				Title:     fields["title"].(string),
				Date:      fields["date"].(time.Time).Format("2006-01-02T15:04:05"),
				CreatorID: creatorID,
			}
			if loc := fields["location"].(string); loc != "" {
				payload.Location = &loc
			}
			if sport := fields["sport_type"].(string); sport != "" {
				payload.SportType = &sport
			}
			if maxP := fields["max_participants"].(int); maxP > 0 {
				payload.MaxParticipants = &maxP
			}
			if fee := fields["fee"].(float64); fee > 0 {
				payload.Fee = &fee
			}
			if note, _ := fields["note"].(string); note != "" {
				payload.Note = &note
			}

			ev, err := api.CreateEvent(ctx, payload)
			if err != nil {
				return err
			}
			return tghelpers.SendHTML(c, ui.FormatEventCreated(ev), ui.MainMenu())
		},
		OnFailure: func(c tele.Context, err error) error {
			text := ui.TextEventCreateFail
			if backend.IsUnavailable(err) {
				text = ui.TextBackendDown
			}
			return tghelpers.SendHTML(c, text, ui.MainMenu())
		},
	}
}
