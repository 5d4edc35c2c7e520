package api

import (
	"context"
	"net/http"

	"tableflip.dev/dumpdash/pkg/dump"
)

// SubmitFeedback validates and sends user feedback.
func (c *Client) SubmitFeedback(ctx context.Context, f dump.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.UserID == "" {
		f.UserID, _ = c.UserID()
	}
	return c.do(ctx, "feedback", http.MethodPost, "/feedback/submit", f, nil)
}
