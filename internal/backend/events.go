package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sporttich/sportbot/internal/model"
)

// GetEvents lists events with pagination and an optional creator filter.
func (c *Client) GetEvents(ctx context.Context, skip, limit int, creatorID int64) ([]model.Event, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if creatorID != 0 {
		q.Set("creator_id", strconv.FormatInt(creatorID, 10))
	}
	var out []model.Event
	if err := c.do(ctx, call{
		op:     "events.list",
		method: http.MethodGet,
		path:   "/events",
		query:  q,
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchEvents runs the upcoming-events search. The endpoint is a POST but
// carries no mutation, so it retries like a read.
func (c *Client) SearchEvents(ctx context.Context, search model.EventSearch) ([]model.Event, error) {
	var out []model.Event
	if err := c.do(ctx, call{
		op:     "events.search",
		method: http.MethodPost,
		path:   "/events/search",
		body:   search,
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvent fetches one event by ID.
func (c *Client) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var out model.Event
	if err := c.do(ctx, call{
		op:     "events.get",
		method: http.MethodGet,
		path:   fmt.Sprintf("/events/%d", id),
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent creates an event. Never auto-retried.
func (c *Client) CreateEvent(ctx context.Context, ev model.EventCreate) (*model.Event, error) {
	var out model.Event
	if err := c.do(ctx, call{
		op:     "events.create",
		method: http.MethodPost,
		path:   "/events",
		body:   ev,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinEvent adds the user to the participant list. A 400 answer maps to a
// rejection with reason already_joined or event_full.
func (c *Client) JoinEvent(ctx context.Context, eventID, userID int64) error {
	return c.do(ctx, call{
		op:     "events.join",
		method: http.MethodPost,
		path:   fmt.Sprintf("/events/%d/participants/%d", eventID, userID),
	})
}

// LeaveEvent removes the user from the participant list.
func (c *Client) LeaveEvent(ctx context.Context, eventID, userID int64) error {
	return c.do(ctx, call{
		op:     "events.leave",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/events/%d/participants/%d", eventID, userID),
	})
}

// GetUserEvents lists events the user participates in.
func (c *Client) GetUserEvents(ctx context.Context, userID int64) ([]model.Event, error) {
	var out []model.Event
	if err := c.do(ctx, call{
		op:     "events.by_user",
		method: http.MethodGet,
		path:   fmt.Sprintf("/events/user/%d", userID),
		out:    &out,
		read:   true,
	}); err != nil {
		return nil, err
	}
	return out, nil
}
