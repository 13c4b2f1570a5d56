package model

import "time"

// User mirrors the events API user record.
type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username,omitempty"`
	FirstName  string    `json:"first_name"`
	Age        *int      `json:"age,omitempty"`
	Gender     *string   `json:"gender,omitempty"`
	City       *string   `json:"city,omitempty"`
	Sports     []string  `json:"sports,omitempty"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProfileComplete reports whether the user finished registration.
// Event creation requires at least age and city.
func (u *User) ProfileComplete() bool {
	return u != nil && u.Age != nil && u.City != nil && *u.City != ""
}

// UserUpdate carries optional fields for PATCH /users/{id}.
type UserUpdate struct {
	Username  *string  `json:"username,omitempty"`
	FirstName *string  `json:"first_name,omitempty"`
	Age       *int     `json:"age,omitempty"`
	Gender    *string  `json:"gender,omitempty"`
	City      *string  `json:"city,omitempty"`
	Sports    []string `json:"sports,omitempty"`
	Note      *string  `json:"note,omitempty"`
}
