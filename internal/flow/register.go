package flow

import (
	"context"
	"strconv"
	"strings"

	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/internal/backend"
	"github.com/sporttich/sportbot/internal/model"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// NewRegisterFlow builds the profile registration dialog. The entry handler
// seeds FieldUserID with the caller's backend user ID.
func NewRegisterFlow(api *backend.Client) *Descriptor {
	return &Descriptor{
		Name: Register,
		Steps: []Step{
			{
				Field: "age",
				Prompt: "📝 Давайте заполним ваш профиль!\n\n" +
					"Сколько вам лет? (отправьте число)\n\n" +
					"💡 Используйте /cancel для отмены",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					age, err := strconv.Atoi(input)
					if err != nil {
						return nil, "❌ Пожалуйста, отправьте число (ваш возраст)"
					}
					if age < 14 || age > 99 {
						return nil, "❌ Укажите возраст от 14 до 99 лет"
					}
					return age, ""
				},
			},
			{
				Field:  "gender",
				Prompt: "⚧ Укажите пол:",
				Markup: ui.GenderMenu(),
				Validate: func(input string) (any, string) {
					if input != "Мужской" && input != "Женский" {
						return nil, "❌ Выберите пол кнопкой ниже"
					}
					return input, ""
				},
			},
			{
				Field:  "city",
				Prompt: "🏙 Из какого вы города?",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					if input == "" {
						return nil, "❌ Укажите город"
					}
					return input, ""
				},
			},
			{
				Field: "sports",
				Prompt: "🏅 Какими видами спорта занимаетесь?\n" +
					"Перечислите через запятую, например: Бег, Йога",
				Markup: ui.CancelMenu(),
				Validate: func(input string) (any, string) {
					parts := strings.Split(input, ",")
					sports := make([]string, 0, len(parts))
					for _, p := range parts {
						s := strings.TrimSpace(p)
						if s == "" {
							continue
						}
						if !model.KnownSport(s) {
							return nil, "❌ Неизвестный вид спорта: " + s + "\nДоступные: " + strings.Join(model.SportTypes, ", ")
						}
						sports = append(sports, s)
					}
					if len(sports) == 0 {
						return nil, "❌ Укажите хотя бы один вид спорта"
					}
					return sports, ""
				},
			},
		},
		Complete: func(ctx context.Context, c tele.Context, fields map[string]any) error {
			userID, _ := fields[FieldUserID].(int64)
			age := fields["age"].(int)
			gender := fields["gender"].(string)
			city := fields["city"].(string)
			upd := model.UserUpdate{
				Age:    &age,
				Gender: &gender,
				City:   &city,
				Sports: fields["sports"].([]string),
			}
			if _, err := api.UpdateUser(ctx, userID, upd); err != nil {
				return err
			}
			return tghelpers.SendHTML(c, "✅ Профиль сохранён! Теперь можно создавать тренировки.", ui.MainMenu())
		},
		OnFailure: func(c tele.Context, err error) error {
			text := "❌ Не удалось сохранить профиль. Попробуйте позже."
			if backend.IsUnavailable(err) {
				text = ui.TextBackendDown
			}
			return tghelpers.SendHTML(c, text, ui.MainMenu())
		},
	}
}
