package api

import (
	"context"
	"net/http"
	"net/url"

	"tableflip.dev/dumpdash/pkg/dump"
)

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Approve accepts an AI-flagged dump and returns the server's copy.
func (c *Client) Approve(ctx context.Context, id string) (*dump.Dump, error) {
	var out dump.Dump
	if err := c.do(ctx, "approve", http.MethodPost, "/review/"+url.PathEscape(id)+"/approve", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject refuses an AI-flagged dump with a reason.
func (c *Client) Reject(ctx context.Context, id, reason string) (*dump.Dump, error) {
	var out dump.Dump
	if err := c.do(ctx, "reject", http.MethodPost, "/review/"+url.PathEscape(id)+"/reject", rejectRequest{Reason: reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
