package api

import (
	"context"
	"net/http"
	"net/url"

	"tableflip.dev/dumpdash/pkg/dump"
)

// ListDumps returns every dump owned by userID.
func (c *Client) ListDumps(ctx context.Context, userID string) ([]dump.Dump, error) {
	if userID == "" {
		var err error
		if userID, err = c.UserID(); err != nil {
			return nil, err
		}
	}
	var out []dump.Dump
	if err := c.do(ctx, "list dumps", http.MethodGet, "/api/dumps/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDump fetches a single dump.
func (c *Client) GetDump(ctx context.Context, id string) (*dump.Dump, error) {
	var out dump.Dump
	if err := c.do(ctx, "get dump", http.MethodGet, "/api/dumps/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDump patches category, notes or content.
func (c *Client) UpdateDump(ctx context.Context, id string, p dump.Patch) (*dump.Dump, error) {
	var out dump.Dump
	if err := c.do(ctx, "update dump", http.MethodPatch, "/api/dumps/"+url.PathEscape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
