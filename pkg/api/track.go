package api

import (
	"context"
	"net/http"
	"net/url"

	"tableflip.dev/dumpdash/pkg/dump"
)

// Reminders lists the reminders scheduled for the current user.
func (c *Client) Reminders(ctx context.Context) ([]dump.Reminder, error) {
	var out []dump.Reminder
	if err := c.do(ctx, "reminders", http.MethodGet, "/api/reminders"+c.userQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tracking lists the followed-up contacts for the current user.
func (c *Client) Tracking(ctx context.Context) ([]dump.Trackable, error) {
	var out []dump.Trackable
	if err := c.do(ctx, "tracking", http.MethodGet, "/api/tracking"+c.userQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) userQuery() string {
	id, err := c.UserID()
	if err != nil {
		return ""
	}
	return "?" + url.Values{"user_id": {id}}.Encode()
}
