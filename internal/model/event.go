package model

import "time"

// Event mirrors the events API event record.
type Event struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	Date              time.Time `json:"date"`
	Location          *string   `json:"location,omitempty"`
	SportType         *string   `json:"sport_type,omitempty"`
	MaxParticipants   *int      `json:"max_participants,omitempty"`
	Fee               *float64  `json:"fee,omitempty"`
	Note              *string   `json:"note,omitempty"`
	CreatorID         int64     `json:"creator_id"`
	ParticipantsCount int       `json:"participants_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// EventCreate is the payload for POST /events.
type EventCreate struct {
	Title           string   `json:"title"`
	Date            string   `json:"date"`
	CreatorID       int64    `json:"creator_id"`
	Description     *string  `json:"description,omitempty"`
	Location        *string  `json:"location,omitempty"`
	SportType       *string  `json:"sport_type,omitempty"`
	MaxParticipants *int     `json:"max_participants,omitempty"`
	Fee             *float64 `json:"fee,omitempty"`
	Note            *string  `json:"note,omitempty"`
}

// EventSearch is the payload for POST /events/search.
type EventSearch struct {
	SportType *string `json:"sport_type,omitempty"`
	DateFrom  *string `json:"date_from,omitempty"`
	DateTo    *string `json:"date_to,omitempty"`
	Skip      int     `json:"skip"`
	Limit     int     `json:"limit"`
}

// SportTypes is the fixed list offered by flows and search.
var SportTypes = []string{
	"Бег",
	"Футбол",
	"Баскетбол",
	"Волейбол",
	"Теннис",
	"Велоспорт",
	"Плавание",
	"Йога",
	"Тренажёрный зал",
	"Другое",
}

// KnownSport reports whether s is one of SportTypes.
func KnownSport(s string) bool {
	for _, t := range SportTypes {
		if t == s {
			return true
		}
	}
	return false
}
