package ui

import (
	"fmt"
	"strings"

	"github.com/sporttich/sportbot/core/telegram/format"
	"github.com/sporttich/sportbot/internal/model"
)

// Main menu button labels. The router treats these as command triggers.
const (
	BtnMyEvents     = "📋 Мои тренировки"
	BtnSearchEvents = "🔍 Найти тренировку"
	BtnCreateEvent  = "➕ Создать тренировку"
	BtnProfile      = "👤 Профиль"
	BtnCancel       = "❌ Отмена"
)

// Shared replies.
const (
	TextWelcome = "👋 Привет! Я помогу найти компанию для тренировок.\n\n" +
		"Создавайте свои тренировки или присоединяйтесь к чужим.\n" +
		"Заполните профиль через /register, чтобы начать."
	TextHelp = "Доступные команды:\n" +
		"/start — главное меню\n" +
		"/register — заполнить профиль\n" +
		"/cancel — отменить текущее действие\n\n" +
		"Кнопки меню: мои тренировки, поиск, создание, профиль."
	TextChooseAction    = "Выберите действие:"
	TextCancelled       = "❌ Действие отменено."
	TextNothingToCancel = "Сейчас нечего отменять."
	TextUnknown         = "🤔 Не понимаю. Воспользуйтесь кнопками меню или /help."
	TextUserNotFound    = "❌ Пользователь не найден. Используйте /start"
	TextBackendDown     = "⚠️ Сервис временно недоступен. Попробуйте позже."
	TextProfileFirst    = "⚠️ Сначала заполните профиль!\nИспользуйте /register для регистрации."
	TextNoEvents        = "📭 У вас пока нет тренировок.\nСоздайте свою или присоединитесь к существующей!"
	TextNoSearchHits    = "📭 Пока нет доступных тренировок от других пользователей."
	TextEventCreateFail = "❌ Ошибка при создании тренировки. Попробуйте позже."
	TextInternalError   = "😔 Что-то пошло не так. Попробуйте ещё раз."
	TextAccessDenied    = "⛔ Команда доступна только администратору."
)

// FormatEvent renders an event card for HTML parse mode.
func FormatEvent(ev *model.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏋️ <b>%s</b>\n", format.EscapeHTML(ev.Title))
	fmt.Fprintf(&b, "📅 %s\n", ev.Date.Format("02.01.2006 15:04"))
	if loc := format.Deref(ev.Location, ""); loc != "" {
		fmt.Fprintf(&b, "📍 %s\n", format.EscapeHTML(loc))
	}
	if sport := format.Deref(ev.SportType, ""); sport != "" {
		fmt.Fprintf(&b, "⚽ %s\n", format.EscapeHTML(sport))
	}
	if maxP := format.Deref(ev.MaxParticipants, 0); maxP > 0 {
		fmt.Fprintf(&b, "👥 До %d чел.\n", maxP)
	}
	if ev.Fee != nil && *ev.Fee > 0 {
		fmt.Fprintf(&b, "💰 %s руб.\n", trimFloat(*ev.Fee))
	}
	if note := format.Deref(ev.Note, ""); note != "" {
		fmt.Fprintf(&b, "📝 %s\n", format.EscapeHTML(note))
	}
	return b.String()
}

// FormatEventLine renders a one-line event summary for lists.
func FormatEventLine(ev *model.Event) string {
	return fmt.Sprintf("🏋️ %s — %s", format.EscapeHTML(ev.Title), ev.Date.Format("02.01.2006 15:04"))
}

// FormatEventCreated renders the confirmation after a successful creation.
func FormatEventCreated(ev *model.Event) string {
	return "✅ Тренировка создана!\n\n" + FormatEvent(ev)
}

// FormatProfile renders the profile card.
func FormatProfile(u *model.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>%s</b>", format.EscapeHTML(u.FirstName))
	if un := format.Deref(u.Username, ""); un != "" {
		fmt.Fprintf(&b, " @%s", format.EscapeHTML(un))
	}
	b.WriteString("\n")
	if age := format.Deref(u.Age, 0); age > 0 {
		fmt.Fprintf(&b, "🎂 %d лет\n", age)
	}
	if g := format.Deref(u.Gender, ""); g != "" {
		fmt.Fprintf(&b, "⚧ %s\n", format.EscapeHTML(g))
	}
	if city := format.Deref(u.City, ""); city != "" {
		fmt.Fprintf(&b, "🏙 %s\n", format.EscapeHTML(city))
	}
	if len(u.Sports) > 0 {
		fmt.Fprintf(&b, "🏅 %s\n", format.EscapeHTML(strings.Join(u.Sports, ", ")))
	}
	if !u.ProfileComplete() {
		b.WriteString("\nПрофиль не заполнен до конца. Используйте /register.")
	}
	return b.String()
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
