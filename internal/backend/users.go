package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sporttich/sportbot/internal/model"
)

// GetOrCreateUser registers the Telegram account on first contact and
// returns the existing record afterwards.
func (c *Client) GetOrCreateUser(ctx context.Context, telegramID int64, username *string, firstName string) (*model.User, error) {
	body := map[string]any{
		"telegram_id": telegramID,
		"first_name":  firstName,
	}
	if username != nil && *username != "" {
		body["username"] = *username
	}
	var out model.User
	if err := c.do(ctx, call{
		op:     "users.get_or_create",
		method: http.MethodPost,
		path:   "/users/get-or-create",
		body:   body,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserByTelegramID resolves a Telegram account to a user record.
func (c *Client) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, call{
		op:     "users.by_telegram_id",
		method: http.MethodGet,
		path:   fmt.Sprintf("/users/telegram/%d", telegramID),
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserByID fetches a user record by primary key.
func (c *Client) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, call{
		op:     "users.by_id",
		method: http.MethodGet,
		path:   fmt.Sprintf("/users/%d", id),
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser patches profile fields. Not retried: a lost answer must not
// trigger a second mutation.
func (c *Client) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, call{
		op:     "users.update",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/users/%d", id),
		body:   upd,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns registered users, optionally filtered by Telegram ID.
// Admin surface.
func (c *Client) ListUsers(ctx context.Context, telegramID int64, skip, limit int) ([]model.User, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if telegramID != 0 {
		q.Set("telegram_id", strconv.FormatInt(telegramID, 10))
	}
	var out []model.User
	if err := c.do(ctx, call{
		op:     "users.list",
		method: http.MethodGet,
		path:   "/admin/users",
		query:  q,
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return out, nil
}
